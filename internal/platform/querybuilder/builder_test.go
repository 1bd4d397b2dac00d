package querybuilder

import "testing"

func TestSelectBuilder_ForUpdate(t *testing.T) {
	query, args, err := Select("id", "status").
		From("events").
		Where(Eq("id", "e1")).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, status FROM events WHERE id = $1 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "e1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_JoinOrAndPaging(t *testing.T) {
	query, args, err := Select("m.id").
		From("matches m").
		Join("JOIN teams t ON t.id = m.team1_id").
		Where(
			InStrings("m.status", []string{"scheduled", "live"}),
			Or(Eq("m.team1_id", "t1"), Eq("m.team2_id", "t1")),
			Gte("m.match_date", 10),
			Lt("m.match_date", 20),
		).
		OrderBy("m.match_date").
		Limit(5).
		Offset(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT m.id FROM matches m JOIN teams t ON t.id = m.team1_id WHERE m.status IN ($1, $2) AND (m.team1_id = $3 OR m.team2_id = $4) AND m.match_date >= $5 AND m.match_date < $6 ORDER BY m.match_date LIMIT 5 OFFSET 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[2] != "t1" || args[5] != 20 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInNeverMatches(t *testing.T) {
	query, args, err := Select("id").From("teams").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM teams WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("sports").
		Columns("id", "name").
		Values("s1", "Football").
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO sports (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "s1" || args[1] != "Football" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_SetExprWithArgs(t *testing.T) {
	query, args, err := Update("points_table").
		SetExpr("wins", "wins + ?", 1).
		SetExpr("updated_at", "NOW()").
		Set("points", 3).
		Where(Eq("team_id", "t1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE points_table SET wins = wins + $1, updated_at = NOW(), points = $2 WHERE team_id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != 1 || args[1] != 3 || args[2] != "t1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("players").ToSQL(); err == nil {
		t.Fatalf("expected error for unbounded delete")
	}

	query, args, err := DeleteFrom("players").Where(Eq("team_id", "t1")).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM players WHERE team_id = $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateModel_SkipsColumns(t *testing.T) {
	type row struct {
		ID   string `db:"id"`
		Name string `db:"name"`
		Note string `db:"-"`
	}
	query, args, err := UpdateModel("venues", row{ID: "v1", Name: "Arena"}, []string{"id"}, Eq("id", "v1"))
	if err != nil {
		t.Fatalf("build update model query: %v", err)
	}
	if query != "UPDATE venues SET name = $1 WHERE id = $2" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[0] != "Arena" || args[1] != "v1" {
		t.Fatalf("unexpected args: %+v", args)
	}
	if cols := Columns(row{}, "v"); len(cols) != 2 || cols[0] != "v.id" {
		t.Fatalf("unexpected columns: %v", cols)
	}
}
