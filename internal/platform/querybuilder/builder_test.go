package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder_PagedWithCount(t *testing.T) {
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	base := Select("id", "competition").
		From("matches").
		Where(Eq("competition", "Série A"), Gte("match_date", from), Expr("EXTRACT(YEAR FROM match_date) = ?", 2024)).
		OrderBy("match_date DESC", "id DESC").
		Limit(10).
		Offset(20)

	query, args, err := base.ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, competition FROM matches WHERE competition = $1 AND match_date >= $2 AND EXTRACT(YEAR FROM match_date) = $3 ORDER BY match_date DESC, id DESC LIMIT 10 OFFSET 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "Série A" || args[2] != 2024 {
		t.Fatalf("unexpected args: %+v", args)
	}

	countQuery, countArgs, err := base.Count().ToSQL()
	if err != nil {
		t.Fatalf("build count query: %v", err)
	}
	wantCount := "SELECT COUNT(*) FROM matches WHERE competition = $1 AND match_date >= $2 AND EXTRACT(YEAR FROM match_date) = $3"
	if countQuery != wantCount {
		t.Fatalf("unexpected count query:\nwant: %s\ngot:  %s", wantCount, countQuery)
	}
	if len(countArgs) != 3 {
		t.Fatalf("unexpected count args: %+v", countArgs)
	}
}

func TestSelectBuilder_ForUpdate(t *testing.T) {
	query, _, err := Select("id").From("coach_tenures").Where(Eq("name", "x")).ForUpdate().ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if want := "SELECT id FROM coach_tenures WHERE name = $1 FOR UPDATE"; query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
}

type tenureRow struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name"`
	EndDate   *string `db:"end_date"`
	CreatedAt string  `db:"created_at"`
	internal  string
}

func TestInsertModel(t *testing.T) {
	query, args, err := InsertModel("coach_tenures", tenureRow{Name: "Artur Jorge", internal: "x"}, "RETURNING id, created_at", "id", "created_at")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO coach_tenures (name, end_date) VALUES ($1, $2) RETURNING id, created_at"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Artur Jorge" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateModel(t *testing.T) {
	query, args, err := UpdateModel("coach_tenures", &tenureRow{ID: 9, Name: "Artur Jorge"}, []Condition{Eq("id", int64(9))}, "RETURNING created_at", "id", "created_at")
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE coach_tenures SET name = $1, end_date = $2 WHERE id = $3 RETURNING created_at"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := Update("matches").Set("formation", "4-3-3").ToSQL(); err == nil {
		t.Fatalf("expected error for update without where")
	}

	query, _, err := Update("matches").SetExpr("collected_at", "NOW()").Where(IsNull("deleted_at")).ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}
	if want := "UPDATE matches SET collected_at = NOW() WHERE deleted_at IS NULL"; query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
}

func TestColumns(t *testing.T) {
	cols, err := Columns(tenureRow{})
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(cols) != 4 || cols[0] != "id" || cols[3] != "created_at" {
		t.Fatalf("unexpected columns: %v", cols)
	}
	if _, err := Columns(42); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
}
