// Package query est l'évaluateur générique filter/search/order/paginate
// partagé par tous les endpoints de liste. Chaque ressource déclare un
// Schema (champs filtrables, champs cherchables, ordres permis, bornes de
// pagination) ; une Spec transitoire est compilée contre ce schema en un
// Plan exécutable par n'importe quel adapter de persistance.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jupiterclapton/murmure/internal/core/domain"
)

// Match décrit le prédicat supporté par un champ filtrable.
type Match int

const (
	MatchExact    Match = iota // égalité stricte (ids, usernames)
	MatchContains              // substring insensible à la casse
)

// Schema est la déclaration par ressource de ce que la Spec a le droit
// de demander. Tout ce qui n'y figure pas est ignoré (filtres) ou rejeté
// (ordering).
type Schema struct {
	Filters         map[string]Match
	SearchFields    []string
	OrderFields     []string
	DefaultOrdering string // préfixe "-" = descendant
	DefaultPageSize int
	MaxPageSize     int
}

// Spec est l'objet-valeur transitoire construit par requête : jamais
// persisté, jamais partagé entre requêtes.
type Spec struct {
	Filters  map[string]string
	Search   string
	Ordering string
	Page     int
	PageSize int
}

// Predicate est un filtre résolu contre le schema.
type Predicate struct {
	Field string
	Match Match
	Value string
}

// Plan est la forme compilée et validée d'une Spec. Les adapters peuvent
// l'exécuter sans re-valider : tous les noms de champs qu'il contient ont
// été admis par le schema.
type Plan struct {
	Predicates   []Predicate
	SearchTerm   string
	SearchFields []string
	OrderField   string
	Descending   bool
	Page         int
	PageSize     int
}

// Offset est le décalage 0-indexé correspondant à la page demandée.
func (p *Plan) Offset() int { return (p.Page - 1) * p.PageSize }

// Compile valide la Spec contre le schema et produit le Plan.
// Les clés de filtre inconnues sont ignorées (compat ascendante) ;
// un champ d'ordering inconnu est une ErrInvalidQuery.
func (s Schema) Compile(spec Spec) (*Plan, error) {
	plan := &Plan{
		SearchTerm:   strings.TrimSpace(spec.Search),
		SearchFields: s.SearchFields,
	}

	// Filtres : on ne garde que les champs déclarés, dans un ordre
	// stable (l'itération de map ne l'est pas).
	keys := make([]string, 0, len(spec.Filters))
	for k := range spec.Filters {
		if _, ok := s.Filters[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		plan.Predicates = append(plan.Predicates, Predicate{
			Field: k,
			Match: s.Filters[k],
			Value: spec.Filters[k],
		})
	}

	// Ordering : défaut du schema si absent, erreur si non déclaré.
	ordering := strings.TrimSpace(spec.Ordering)
	if ordering == "" {
		ordering = s.DefaultOrdering
	}
	field := strings.TrimPrefix(ordering, "-")
	plan.Descending = strings.HasPrefix(ordering, "-")
	if !contains(s.OrderFields, field) {
		return nil, fmt.Errorf("%w: cannot order by %q", domain.ErrInvalidQuery, field)
	}
	plan.OrderField = field

	// Pagination : 1-indexée, taille bornée par la ressource.
	plan.Page = spec.Page
	if plan.Page < 1 {
		plan.Page = 1
	}
	plan.PageSize = spec.PageSize
	if plan.PageSize <= 0 {
		plan.PageSize = s.DefaultPageSize
	}
	if plan.PageSize > s.MaxPageSize {
		plan.PageSize = s.MaxPageSize
	}

	return plan, nil
}

func contains(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

// Page est la forme de réponse de tout endpoint de liste : les items de
// la page demandée plus le total de l'ensemble filtré non paginé.
type Page[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
}

// NewPage assemble la réponse à partir d'un Plan exécuté.
func NewPage[T any](items []T, total int, plan *Plan) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Page: plan.Page, PageSize: plan.PageSize}
}
