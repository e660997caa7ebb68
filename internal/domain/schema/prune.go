package schema

// PruneKeys elimina de merged las claves que aportaba el propagador (prevKeys), que ya no aporta
// (currKeys) y que ningún otro grupo de la categoría aporta (otherKeys). Toda clave que nunca
// estuvo en prevKeys es dato local o ajeno y se conserva. Devuelve una definición nueva.
func PruneKeys(merged Definition, prevKeys, currKeys, otherKeys KeySet) Definition {
	out := make(Definition, len(merged))
	for key, value := range merged {
		if !prevKeys.Has(key) || currKeys.Has(key) || otherKeys.Has(key) {
			out[key] = value
		}
	}
	return out
}

// DroppedKeys devuelve las claves que PruneKeys eliminaría, ordenadas.
func DroppedKeys(merged Definition, prevKeys, currKeys, otherKeys KeySet) []string {
	dropped := KeySet{}
	for key := range merged {
		if prevKeys.Has(key) && !currKeys.Has(key) && !otherKeys.Has(key) {
			dropped[key] = struct{}{}
		}
	}
	return dropped.Sorted()
}
