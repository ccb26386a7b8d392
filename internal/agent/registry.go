package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/cleberfarias/chatia-core/internal/models"
)

// PersonaStore persists per-user custom personas. Implemented by
// internal/db; a nil store keeps custom personas in memory only.
type PersonaStore interface {
	LoadByUser(ctx context.Context, userID string) ([]models.PersonaRecord, error)
	Upsert(ctx context.Context, rec models.PersonaRecord) error
	Delete(ctx context.Context, userID, key string) error
}

// Registry resolves persona names to personas. Built-in personas are
// global; custom personas belong to the user who created them and shadow
// built-ins with the same key. Creating a custom persona under an existing
// key overwrites it, last write wins.
type Registry struct {
	store  PersonaStore
	logger *slog.Logger

	builtins       []Persona
	builtinByKey   map[string]Persona
	builtinByAlias map[string]string

	mu    sync.Mutex
	users map[string]*userCustoms
}

// userCustoms holds one user's custom personas behind its own lock, so a
// slow store load for one user never stalls lookups for another.
type userCustoms struct {
	mu       sync.Mutex
	loaded   bool
	personas map[string]Persona
}

func NewRegistry(store PersonaStore, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	builtins, err := Builtins()
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]Persona, len(builtins))
	byAlias := make(map[string]string)
	for _, p := range builtins {
		byKey[p.Key()] = p
		for _, alias := range p.Aliases {
			byAlias[Slug(alias)] = p.Key()
		}
	}
	return &Registry{
		store:          store,
		logger:         logger,
		builtins:       builtins,
		builtinByKey:   byKey,
		builtinByAlias: byAlias,
		users:          make(map[string]*userCustoms),
	}, nil
}

// user returns the per-user bucket, creating it if needed. Only the
// bucket map itself is guarded by r.mu; store I/O happens under the
// bucket's own lock.
func (r *Registry) user(userID string) *userCustoms {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		u = &userCustoms{personas: make(map[string]Persona)}
		r.users[userID] = u
	}
	return u
}

// ensureLoaded loads the user's custom personas from the store once.
// The caller holds u.mu. A failed load leaves loaded false so the next
// call retries; records that fail validation are skipped with a warning
// instead of breaking the whole user.
func (r *Registry) ensureLoaded(ctx context.Context, userID string, u *userCustoms) {
	if u.loaded || r.store == nil {
		u.loaded = true
		return
	}

	records, err := r.store.LoadByUser(ctx, userID)
	if err != nil {
		r.logger.Warn("loading custom personas failed", "user_id", userID, "error", err)
		return
	}

	for _, rec := range records {
		p, err := NewPersona(rec)
		if err != nil {
			r.logger.Warn("skipping invalid custom persona", "user_id", userID, "error", err)
			continue
		}
		u.personas[p.Key()] = p
	}
	u.loaded = true
}

// Resolve returns the persona for a name, preferring the user's custom
// persona over a built-in with the same key.
func (r *Registry) Resolve(ctx context.Context, name, userID string) (Persona, bool) {
	key := Slug(name)

	if userID != "" {
		u := r.user(userID)
		u.mu.Lock()
		r.ensureLoaded(ctx, userID, u)
		p, ok := u.personas[key]
		u.mu.Unlock()
		if ok {
			return p, true
		}
	}

	// builtins are immutable after NewRegistry
	if p, ok := r.builtinByKey[key]; ok {
		return p, true
	}
	if target, ok := r.builtinByAlias[key]; ok {
		return r.builtinByKey[target], true
	}
	return Persona{}, false
}

// Personas returns every persona visible to a user, customs first so
// mention detection prefers them over built-ins.
func (r *Registry) Personas(ctx context.Context, userID string) []Persona {
	var out []Persona
	if userID != "" {
		u := r.user(userID)
		u.mu.Lock()
		r.ensureLoaded(ctx, userID, u)
		keys := make([]string, 0, len(u.personas))
		for key := range u.personas {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			out = append(out, u.personas[key])
		}
		u.mu.Unlock()
	}
	return append(out, r.builtins...)
}

// CreateCustom validates and stores a custom persona for a user.
func (r *Registry) CreateCustom(ctx context.Context, rec models.PersonaRecord) (Persona, error) {
	if strings.TrimSpace(rec.UserID) == "" {
		return Persona{}, fmt.Errorf("custom persona needs a user id")
	}
	p, err := NewPersona(rec)
	if err != nil {
		return Persona{}, err
	}

	u := r.user(rec.UserID)
	u.mu.Lock()
	defer u.mu.Unlock()
	r.ensureLoaded(ctx, rec.UserID, u)

	// persist before installing so a failed write leaves nothing resolvable
	rec.Key = p.Key()
	if r.store != nil {
		if err := r.store.Upsert(ctx, rec); err != nil {
			return Persona{}, fmt.Errorf("persisting custom persona: %w", err)
		}
	}
	u.personas[p.Key()] = p

	r.logger.Info("custom persona created", "user_id", rec.UserID, "persona", p.Key())
	return p, nil
}

// DeleteCustom removes a user's custom persona. Built-ins cannot be
// deleted; deleting an unknown persona reports false without error.
func (r *Registry) DeleteCustom(ctx context.Context, userID, name string) (bool, error) {
	key := Slug(name)

	u := r.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	r.ensureLoaded(ctx, userID, u)

	if _, ok := u.personas[key]; !ok {
		return false, nil
	}
	if r.store != nil {
		if err := r.store.Delete(ctx, userID, key); err != nil {
			return false, fmt.Errorf("deleting custom persona: %w", err)
		}
	}
	delete(u.personas, key)
	r.logger.Info("custom persona deleted", "user_id", userID, "persona", key)
	return true, nil
}

// ListAll renders the persona catalogue for chat display.
func (r *Registry) ListAll(ctx context.Context, userID string) string {
	var b strings.Builder
	b.WriteString("🤖 **Agentes IA Especializados Disponíveis:**\n\n")
	for _, p := range r.Personas(ctx, userID) {
		fmt.Fprintf(&b, "**@%s** %s\n", p.Key(), p.Emoji)
		specialties := p.Specialties
		if len(specialties) > 3 {
			specialties = specialties[:3]
		}
		fmt.Fprintf(&b, "└─ Especialidades: %s\n\n", strings.Join(specialties, ", "))
	}
	b.WriteString("\n💡 _Use @agente para iniciar conversa_\n")
	b.WriteString("📋 _Use @agente /ajuda para ver comandos_")
	return b.String()
}
