package recon

import (
	"strings"

	"orgrecon/domain/core"
	"orgrecon/domain/table"
)

// Canonicalize restricts a clean table to the configured department and
// rewrites header variants to their canonical names. Owner values are
// trimmed and the category key upper-cased so later joins compare like
// with like.
//
// Required columns absent after renaming are a hard stop: the cascade's
// joins are keyed on them, and substituting defaults would corrupt output
// silently.
func Canonicalize(t table.Table, cfg Config) (table.Table, error) {
	out, err := applyRenames(t, cfg.Renames)
	if err != nil {
		return table.Table{}, err
	}

	cols := cfg.Columns
	for _, required := range []string{cols.Department, cols.Category, cols.Group, cols.Owner} {
		if !out.HasColumn(required) {
			return table.Table{}, core.NewMissingColumnError(required)
		}
	}

	out = out.Filter(func(r table.Row) bool {
		return r.Get(cols.Department) == cfg.Department
	})

	for i, r := range out.Rows {
		nr := r.Clone()
		nr[cols.Owner] = strings.TrimSpace(r[cols.Owner])
		nr[cols.Category] = strings.ToUpper(strings.TrimSpace(r[cols.Category]))
		out.Rows[i] = nr
	}
	return out, nil
}

// applyRenames applies the ordered rule list once. An exact rule matching
// more than one header is a configuration error.
func applyRenames(t table.Table, rules []RenameRule) (table.Table, error) {
	out := t.Clone()
	for _, rule := range rules {
		switch rule.Kind {
		case MatchExact:
			matched := 0
			for _, c := range out.Columns {
				if c == rule.Pattern {
					matched++
				}
			}
			if matched > 1 {
				return table.Table{}, core.NewStageError(core.StageCanonicalize, core.ErrAmbiguousRule)
			}
			if matched == 1 {
				out = out.Rename(rule.Pattern, rule.Replacement)
			}
		case MatchSubstring:
			// Snapshot the header first; renaming while iterating would
			// let one rule observe its own output.
			names := append([]string(nil), out.Columns...)
			for _, c := range names {
				if strings.Contains(c, rule.Pattern) {
					out = out.Rename(c, strings.ReplaceAll(c, rule.Pattern, rule.Replacement))
				}
			}
		}
	}
	return out, nil
}
