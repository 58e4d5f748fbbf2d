package http

import (
	"net/http"
	"strconv"

	"github.com/jupiterclapton/murmure/internal/core/query"
)

// Paramètres réservés au moteur de requête lui-même : tout le reste de
// la query string est passé tel quel comme filtre candidat, le schema de
// la ressource décidant de ce qu'il garde.
var reservedParams = map[string]struct{}{
	"search":    {},
	"ordering":  {},
	"page":      {},
	"page_size": {},
}

// specFromRequest construit la Spec transitoire depuis la query string.
// Les valeurs non numériques de page/page_size valent zéro : Compile les
// ramène à leurs défauts.
func specFromRequest(r *http.Request) query.Spec {
	params := r.URL.Query()

	filters := make(map[string]string)
	for key, values := range params {
		if _, reserved := reservedParams[key]; reserved {
			continue
		}
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}

	page, _ := strconv.Atoi(params.Get("page"))
	pageSize, _ := strconv.Atoi(params.Get("page_size"))

	return query.Spec{
		Filters:  filters,
		Search:   params.Get("search"),
		Ordering: params.Get("ordering"),
		Page:     page,
		PageSize: pageSize,
	}
}
