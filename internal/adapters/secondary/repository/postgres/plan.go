package postgres

import (
	"fmt"
	"strings"

	"github.com/jupiterclapton/murmure/internal/core/query"
)

// planBuilder traduit un query.Plan en clauses SQL. Les noms de champs
// du plan ont déjà été admis par le schema de la ressource ; cols mappe
// chaque nom vers son expression SQL, donc rien d'arbitraire n'atteint
// la requête.
type planBuilder struct {
	cols  map[string]string
	where []string
	args  []any
}

func newPlanBuilder(cols map[string]string) *planBuilder {
	return &planBuilder{cols: cols}
}

// likeEscaper neutralise les métacaractères LIKE : la valeur du client
// est un littéral, pas un motif. L'ESCAPE par défaut de Postgres est le
// backslash.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where ajoute une condition fixe (restriction de collection) avant
// celles du plan.
func (b *planBuilder) Where(cond string, args ...any) *planBuilder {
	for _, a := range args {
		b.args = append(b.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.where = append(b.where, cond)
	return b
}

// Apply intègre filtres et recherche du plan.
func (b *planBuilder) Apply(plan *query.Plan) *planBuilder {
	for _, p := range plan.Predicates {
		col := b.cols[p.Field]
		switch p.Match {
		case query.MatchExact:
			b.args = append(b.args, p.Value)
			b.where = append(b.where, fmt.Sprintf("%s = $%d", col, len(b.args)))
		case query.MatchContains:
			b.args = append(b.args, likeEscaper.Replace(p.Value))
			b.where = append(b.where, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", col, len(b.args)))
		}
	}

	if plan.SearchTerm != "" {
		b.args = append(b.args, likeEscaper.Replace(plan.SearchTerm))
		n := len(b.args)
		parts := make([]string, 0, len(plan.SearchFields))
		for _, f := range plan.SearchFields {
			parts = append(parts, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", b.cols[f], n))
		}
		b.where = append(b.where, "("+strings.Join(parts, " OR ")+")")
	}
	return b
}

func (b *planBuilder) WhereSQL() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

// OrderSQL départage par created_at ascendant puis id, comme
// l'évaluateur en mémoire, pour une pagination déterministe.
func (b *planBuilder) OrderSQL(plan *query.Plan) string {
	dir := "ASC"
	if plan.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s ASC, %s ASC",
		b.cols[plan.OrderField], dir, b.cols["created_at"], b.cols["id"])
}

func (b *planBuilder) PageSQL(plan *query.Plan) string {
	return fmt.Sprintf(" LIMIT %d OFFSET %d", plan.PageSize, plan.Offset())
}

func (b *planBuilder) Args() []any { return b.args }
