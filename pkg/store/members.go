package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hazyhaar/dpr-registry/pkg/member"
)

var (
	memberCols   = strings.Join(member.Columns, ", ")
	selectMember = "SELECT " + memberCols + " FROM " + MembersTable
	insertMember = "INSERT INTO " + MembersTable + " (" + memberCols + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(member.Columns)), ", ") + ")"
)

// searchQuery ranks name hits first, then faction hits, then party or district
// hits, and orders by name within a rank. The pattern is folded in Go and the
// columns by dpr_fold (see fold.go), so non-ASCII letters match in any case.
var searchQuery = selectMember + `
	WHERE dpr_fold(nama) LIKE ? ESCAPE '\'
	   OR dpr_fold(fraksi) LIKE ? ESCAPE '\'
	   OR dpr_fold(partai) LIKE ? ESCAPE '\'
	   OR dpr_fold(dapil) LIKE ? ESCAPE '\'
	ORDER BY
		CASE
			WHEN dpr_fold(nama) LIKE ? ESCAPE '\' THEN 1
			WHEN dpr_fold(fraksi) LIKE ? ESCAPE '\' THEN 2
			ELSE 3
		END,
		nama, anggota
	LIMIT ?`

// groupColumns are the columns TopValues accepts.
var groupColumns = map[string]bool{
	member.ColFaction:   true,
	member.ColParty:     true,
	member.ColDistrict:  true,
	member.ColReligion:  true,
	member.ColBirthCity: true,
}

// ValueCount is one row of a group-by aggregate.
type ValueCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ReplaceMembers discards every stored member and inserts records in a single
// transaction. It returns the number of rows written.
func (s *Store) ReplaceMembers(ctx context.Context, records []member.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+MembersTable); err != nil {
		return 0, fmt.Errorf("clear members: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertMember)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		if _, err := stmt.ExecContext(ctx, memberArgs(&records[i])...); err != nil {
			return 0, fmt.Errorf("insert member %d: %w", records[i].MemberID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace: %w", err)
	}
	return len(records), nil
}

// SearchMembers returns up to limit members whose name, faction, party or district
// contains query, case-insensitively. LIKE wildcards in query match literally.
func (s *Store) SearchMembers(ctx context.Context, query string, limit int) ([]member.Record, error) {
	pattern := "%" + escapeLike(Fold(query)) + "%"
	rows, err := s.db.QueryContext(ctx, searchQuery,
		pattern, pattern, pattern, pattern,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}
	return scanMembers(rows)
}

// SampleMembers returns the first n stored members in import order.
func (s *Store) SampleMembers(ctx context.Context, n int) ([]member.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectMember+" ORDER BY id LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("sample members: %w", err)
	}
	return scanMembers(rows)
}

// CountMembers returns the number of stored members.
func (s *Store) CountMembers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+MembersTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

// TopValues returns the n most frequent values of column with their counts.
func (s *Store) TopValues(ctx context.Context, column string, n int) ([]ValueCount, error) {
	if !groupColumns[column] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	q := "SELECT " + column + ", COUNT(*) AS n FROM " + MembersTable +
		" GROUP BY " + column + " ORDER BY n DESC, " + column + " LIMIT ?"
	rows, err := s.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("top %s: %w", column, err)
	}
	defer rows.Close()

	var out []ValueCount
	for rows.Next() {
		var vc ValueCount
		var name sql.NullString
		if err := rows.Scan(&name, &vc.Count); err != nil {
			return nil, fmt.Errorf("scan top %s: %w", column, err)
		}
		vc.Name = name.String
		out = append(out, vc)
	}
	return out, rows.Err()
}

func memberArgs(r *member.Record) []any {
	args := make([]any, 0, len(member.Columns))
	for _, col := range member.Columns {
		switch col {
		case member.ColMemberID:
			args = append(args, r.MemberID)
		case member.ColAge:
			if r.Age == nil {
				args = append(args, nil)
			} else {
				args = append(args, *r.Age)
			}
		default:
			args = append(args, *r.Field(col))
		}
	}
	return args
}

func scanMembers(rows *sql.Rows) ([]member.Record, error) {
	defer rows.Close()

	var out []member.Record
	for rows.Next() {
		var r member.Record
		var age sql.NullInt64
		text := make([]sql.NullString, len(member.Columns))
		dest := make([]any, len(member.Columns))
		for i, col := range member.Columns {
			switch col {
			case member.ColMemberID:
				dest[i] = &r.MemberID
			case member.ColAge:
				dest[i] = &age
			default:
				dest[i] = &text[i]
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		for i, col := range member.Columns {
			if p := r.Field(col); p != nil {
				*p = text[i].String
			}
		}
		if age.Valid {
			a := int(age.Int64)
			r.Age = &a
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// escapeLike makes %, _ and the escape character itself match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
