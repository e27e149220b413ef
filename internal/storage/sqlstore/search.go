package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"lightbnb/internal/domain"
)

// likeEscaper makes LIKE wildcards typed by the caller match literally. '!'
// is used as the escape character because a backslash literal is spelled
// differently in Postgres and MySQL.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// predicate is one condition of the search statement. Each %s in clause is
// replaced by the next bind placeholder when the statement is rendered.
type predicate struct {
	clause    string
	args      []any
	aggregate bool // depends on avg(rating); rendered after GROUP BY
}

// searchPredicates lists the active filter conditions in their fixed order:
// city, owner, price range, minimum rating.
func searchPredicates(f domain.PropertyFilter) []predicate {
	var ps []predicate
	if f.City != "" {
		ps = append(ps, predicate{
			clause: "properties.city LIKE %s ESCAPE '!'",
			args:   []any{"%" + likeEscaper.Replace(f.City) + "%"},
		})
	}
	if f.OwnerID != nil {
		ps = append(ps, predicate{
			clause: "properties.owner_id = %s",
			args:   []any{*f.OwnerID},
		})
	}
	if f.HasPriceRange() {
		ps = append(ps, predicate{
			clause: "(properties.cost_per_night >= %s AND properties.cost_per_night <= %s)",
			args: []any{
				domain.MinorUnits(*f.MinimumPricePerNight),
				domain.MinorUnits(*f.MaximumPricePerNight),
			},
		})
	}
	if f.MinimumRating != nil {
		ps = append(ps, predicate{
			clause:    "avg(property_reviews.rating) >= %s",
			args:      []any{*f.MinimumRating},
			aggregate: true,
		})
	}
	return ps
}

// binder hands out placeholders in statement order and collects the
// matching arguments.
type binder struct {
	bindType int
	args     []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	if b.bindType == sqlx.DOLLAR {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

// writeGroup renders ps under keyword: the first condition is introduced by
// keyword and every following one by AND.
func (b *binder) writeGroup(sb *strings.Builder, keyword string, ps []predicate) {
	for i, p := range ps {
		phs := make([]any, len(p.args))
		for j, a := range p.args {
			phs[j] = b.bind(a)
		}
		if i == 0 {
			sb.WriteString("\n" + keyword + " ")
		} else {
			sb.WriteString("\nAND ")
		}
		fmt.Fprintf(sb, p.clause, phs...)
	}
}

// BuildSearch assembles the property search statement for the given
// placeholder style (sqlx.DOLLAR or sqlx.QUESTION). Filter values are only
// ever returned as args, never written into the statement text.
func BuildSearch(bindType int, f domain.PropertyFilter, limit int) (string, []any) {
	var where, having []predicate
	for _, p := range searchPredicates(f) {
		if p.aggregate {
			having = append(having, p)
		} else {
			where = append(where, p)
		}
	}

	b := &binder{bindType: bindType}
	var sb strings.Builder
	sb.WriteString(searchBaseSQL)
	b.writeGroup(&sb, "WHERE", where)
	sb.WriteString("\nGROUP BY properties.id")
	b.writeGroup(&sb, "HAVING", having)
	sb.WriteString("\nORDER BY properties.cost_per_night")
	sb.WriteString("\nLIMIT " + b.bind(domain.NormalizeLimit(limit)))
	return sb.String(), b.args
}
