package llm

import (
	"maps"
	"slices"
	"strings"

	ai "github.com/spetersoncode/lessonflow"
	"github.com/spetersoncode/lessonflow/model"
)

// ResolveModelAlias maps an alias to a provider and model.
//
// Lookup order: empty alias (defaults), configured or built-in alias,
// "provider/model", bare model id from the catalog. An explicit
// "provider/model" is never replaced by the defaults; an unsupported provider
// fails later with *ErrUnsupportedProvider. Anything else falls back to the
// defaults in lenient mode and fails with *UnknownAliasError in strict mode.
func (m *Manager) ResolveModelAlias(alias string) (ai.Provider, string, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		p, id := m.defaults()
		return p, id, nil
	}

	if target, ok := m.aliases[alias]; ok {
		if p, id, ok := m.parseTarget(target); ok {
			return p, id, nil
		}
	}
	if p, id, ok := m.parseTarget(alias); ok {
		return p, id, nil
	}

	if m.aliasMode == AliasStrict {
		return "", "", &UnknownAliasError{Alias: alias, Known: m.AliasNames()}
	}
	p, id := m.defaults()
	m.logger.Warn("unknown model alias, using default", "alias", alias, "provider", p, "model", id)
	return p, id, nil
}

// AliasNames returns the configured and built-in alias names, sorted.
func (m *Manager) AliasNames() []string {
	return slices.Sorted(maps.Keys(m.aliases))
}

// parseTarget accepts "provider/model" or a model id from the built-in catalog.
func (m *Manager) parseTarget(s string) (ai.Provider, string, bool) {
	if p, id, found := strings.Cut(s, "/"); found {
		if p == "" || id == "" {
			return "", "", false
		}
		return ai.Provider(p), id, true
	}
	if cm, ok := model.Lookup(s); ok {
		return cm.Provider(), cm.String(), true
	}
	return "", "", false
}

func (m *Manager) defaults() (ai.Provider, string) {
	p := m.defaultProvider
	if p == "" {
		p = ai.ProviderAnthropic
	}
	id := m.defaultModel
	if id == "" {
		if cm, ok := model.DefaultFor(p); ok {
			id = cm.String()
		}
	}
	return p, id
}
