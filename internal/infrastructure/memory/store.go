// Package memory implementa los puertos de persistencia en memoria con transacciones por copia
// del estado. Se usa con STORAGE_DRIVER=memory (desarrollo, demos) y en pruebas.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
)

var _ propagation.TxRunner = (*Store)(nil)

// WriteHook se invoca antes de cada escritura con la entidad ("grupo", "categoria", "modelo",
// "activo", "usuario") y el ID afectado. Si devuelve error la escritura falla con ese error.
type WriteHook func(entityName, id string) error

type state struct {
	groups     map[string]entity.Group
	categories map[string]entity.Category
	links      map[entity.CategoryGroup]bool
	models     map[string]entity.Model
	assets     map[string]entity.Asset
	users      map[string]entity.User
}

func newState() state {
	return state{
		groups:     map[string]entity.Group{},
		categories: map[string]entity.Category{},
		links:      map[entity.CategoryGroup]bool{},
		models:     map[string]entity.Model{},
		assets:     map[string]entity.Asset{},
		users:      map[string]entity.User{},
	}
}

func (s state) clone() state {
	out := newState()
	for k, v := range s.groups {
		v.Definition = cloneBytes(v.Definition)
		out.groups[k] = v
	}
	for k, v := range s.categories {
		v.Definition = cloneBytes(v.Definition)
		out.categories[k] = v
	}
	for k, v := range s.links {
		out.links[k] = v
	}
	for k, v := range s.models {
		v.Definition = cloneBytes(v.Definition)
		v.Specifications = cloneBytes(v.Specifications)
		out.models[k] = v
	}
	for k, v := range s.assets {
		v.Definition = cloneBytes(v.Definition)
		v.CustomData = cloneBytes(v.CustomData)
		out.assets[k] = v
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	return out
}

// Store almacén en memoria. El estado confirmado solo cambia al terminar Run sin error.
type Store struct {
	mu    sync.Mutex
	state state
	hook  WriteHook
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// SetWriteHook registra un hook de escritura (nil lo quita).
func (s *Store) SetWriteHook(h WriteHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = h
}

// Run ejecuta fn sobre una copia del estado; si fn no falla la copia pasa a ser el estado confirmado.
func (s *Store) Run(ctx context.Context, fn func(repos propagation.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.state.clone()
	if err := fn(s.reposFor(&tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// Repos devuelve repositorios sin transacción (cada operación es atómica por sí sola).
func (s *Store) Repos() propagation.Repos {
	return s.reposFor(nil)
}

// GroupRepository repositorio de grupos sin transacción.
func (s *Store) GroupRepository() *GroupRepo { return &GroupRepo{access{store: s}} }

// CategoryRepository repositorio de categorías sin transacción.
func (s *Store) CategoryRepository() *CategoryRepo { return &CategoryRepo{access{store: s}} }

// ModelRepository repositorio de modelos sin transacción.
func (s *Store) ModelRepository() *ModelRepo { return &ModelRepo{access{store: s}} }

// AssetRepository repositorio de activos sin transacción.
func (s *Store) AssetRepository() *AssetRepo { return &AssetRepo{access{store: s}} }

// UserRepository repositorio de usuarios (fuera de las transacciones de propagación).
func (s *Store) UserRepository() *UserRepo { return &UserRepo{access{store: s}} }

func (s *Store) reposFor(tx *state) propagation.Repos {
	a := access{store: s, tx: tx}
	return propagation.Repos{
		Groups:     &GroupRepo{a},
		Categories: &CategoryRepo{a},
		Models:     &ModelRepo{a},
		Assets:     &AssetRepo{a},
	}
}

// access resuelve sobre qué estado opera un repositorio: la copia de la tx o el confirmado.
type access struct {
	store *Store
	tx    *state
}

func (a access) read(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(&a.store.state)
}

func (a access) write(entityName, id string, fn func(st *state) error) error {
	return a.read(func(st *state) error {
		if a.store.hook != nil {
			if err := a.store.hook(entityName, id); err != nil {
				return err
			}
		}
		return fn(st)
	})
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
