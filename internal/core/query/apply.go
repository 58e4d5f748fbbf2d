package query

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Row expose les valeurs d'une ressource au moteur. Les valeurs admises
// sont string, int64, bool et time.Time ; tout row doit au minimum savoir
// répondre pour "id" et "created_at" (clés secondaires du tri).
type Row interface {
	QueryValue(field string) any
}

// Apply exécute un Plan sur une collection en mémoire : filtre, cherche,
// trie puis découpe la page. Retourne la page et le total filtré.
// Une page au-delà de la dernière donne une tranche vide, pas une erreur.
func Apply[T Row](items []T, plan *Plan) ([]T, int) {
	filtered := make([]T, 0, len(items))
	for _, it := range items {
		if matches(it, plan) {
			filtered = append(filtered, it)
		}
	}
	total := len(filtered)

	sort.SliceStable(filtered, func(i, j int) bool {
		return less(filtered[i], filtered[j], plan)
	})

	start := plan.Offset()
	if start >= total {
		return []T{}, total
	}
	end := start + plan.PageSize
	if end > total {
		end = total
	}
	return filtered[start:end], total
}

func matches(row Row, plan *Plan) bool {
	for _, p := range plan.Predicates {
		val := stringify(row.QueryValue(p.Field))
		switch p.Match {
		case MatchExact:
			if val != p.Value {
				return false
			}
		case MatchContains:
			if !strings.Contains(strings.ToLower(val), strings.ToLower(p.Value)) {
				return false
			}
		}
	}

	// Recherche libre : OR entre les champs déclarés, AND avec les filtres.
	if plan.SearchTerm != "" {
		term := strings.ToLower(plan.SearchTerm)
		found := false
		for _, f := range plan.SearchFields {
			if strings.Contains(strings.ToLower(stringify(row.QueryValue(f))), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// less ordonne par le champ demandé, départage par created_at ascendant
// puis par id, pour que la pagination soit déterministe d'un appel à
// l'autre avec la même Spec.
func less(a, b Row, plan *Plan) bool {
	if c := compare(a.QueryValue(plan.OrderField), b.QueryValue(plan.OrderField)); c != 0 {
		if plan.Descending {
			return c > 0
		}
		return c < 0
	}
	if c := compare(a.QueryValue("created_at"), b.QueryValue("created_at")); c != 0 {
		return c < 0
	}
	return stringify(a.QueryValue("id")) < stringify(b.QueryValue("id"))
}

func compare(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			default:
				return 0
			}
		}
	case int64:
		if bv, ok := b.(int64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(stringify(a), stringify(b))
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}
