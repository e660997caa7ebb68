package schema

// MergeDefaults fusiona recursivamente defaults dentro de target sin sobrescribir nada de lo que
// target ya tiene: solo agrega claves y subárboles faltantes. Reglas:
//   - defaults nil: devuelve target.
//   - target nil: devuelve una copia profunda de defaults.
//   - defaults lista: nunca se fusiona; devuelve target (las listas son atómicas).
//   - cualquiera de los dos no es objeto: devuelve target.
//   - objetos: por cada clave de defaults ausente en target se copia el valor; si ambos lados son
//     objetos se recurre; en cualquier otro caso se conserva el valor de target.
//
// Un valor JSON null presente en target cuenta como valor y no se reemplaza.
// El resultado nunca comparte estructura mutable con defaults ni con target.
func MergeDefaults(target, defaults any) any {
	if defaults == nil {
		return deepCopy(target)
	}
	if target == nil {
		return deepCopy(defaults)
	}
	return mergeInto(deepCopy(target), defaults)
}

// MergeDefinitions es la versión tipada de MergeDefaults para definiciones canónicas.
func MergeDefinitions(target, defaults Definition) Definition {
	var t, d any
	if target != nil {
		t = map[string]any(target)
	}
	if defaults != nil {
		d = map[string]any(defaults)
	}
	merged, ok := asMap(MergeDefaults(t, d))
	if !ok {
		return Definition{}
	}
	return Definition(merged)
}

// mergeInto modifica target (ya copiado) agregando lo que falte de defaults.
func mergeInto(target, defaults any) any {
	if _, isList := defaults.([]any); isList {
		return target
	}
	t, okT := asMap(target)
	d, okD := asMap(defaults)
	if !okT || !okD {
		return target
	}
	for key, dv := range d {
		tv, present := t[key]
		if !present {
			t[key] = deepCopy(dv)
			continue
		}
		tm, tIsMap := asMap(tv)
		dm, dIsMap := asMap(dv)
		if tIsMap && dIsMap {
			t[key] = mergeInto(tm, dm)
		}
	}
	return t
}
