package sqlstore

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/paging"
	"github.com/ncobase/keyset/types"
)

var testDialect = &Dialect{
	Name:   "test",
	Flavor: dialect.Postgres,
	ColumnTypes: map[string]string{
		config.FieldString: "TEXT",
		config.FieldInt:    "BIGINT",
		config.FieldFloat:  "DOUBLE PRECISION",
		config.FieldBool:   "BOOLEAN",
		config.FieldTime:   "TIMESTAMPTZ",
	},
	NullsLast: true,
}

func newTestBuilder(t *testing.T, d *Dialect) *builder {
	t.Helper()
	b, err := newBuilder(d, "records", "id", config.DefaultFields())
	if err != nil {
		t.Fatalf("newBuilder: %v", err)
	}
	return b
}

func TestSelectKeysetQuery(t *testing.T) {
	b := newTestBuilder(t, testDialect)
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	q, err := paging.BuildQuery(paging.QueryParams{
		Cursor:    &paging.Cursor{Field: "createdAt", Value: at, ID: "01H"},
		SortField: "createdAt",
		IDField:   "id",
		Order:     types.Descending,
		Filter:    paging.Eq("name", "a"),
		Limit:     11,
	})
	if err != nil {
		t.Fatal(err)
	}
	sql, args, err := b.selectSQL(q)
	if err != nil {
		t.Fatal(err)
	}
	for _, part := range []string{
		`SELECT "id", "createdAt", "name", "score" FROM "records" WHERE `,
		`"name" = $1`,
		`"createdAt" < $2 OR "createdAt" IS NULL`,
		`"createdAt" = $3`,
		`"id" < $4 OR "id" IS NULL`,
	} {
		if !strings.Contains(sql, part) {
			t.Errorf("sql %s\nmissing %s", sql, part)
		}
	}
	if want := ` ORDER BY "createdAt" DESC NULLS LAST, "id" DESC NULLS LAST LIMIT 11`; !strings.HasSuffix(sql, want) {
		t.Errorf("sql %s\nwant suffix %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"a", at, at, "01H"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestSelectMySQLFlavor(t *testing.T) {
	d := *testDialect
	d.Flavor = dialect.MySQL
	d.NullsLast = false
	b := newTestBuilder(t, &d)

	sql, _, err := b.selectSQL(&paging.Query{
		Filter: paging.Gt("score", 3),
		Sort:   []paging.SortKey{{Field: "score", Order: types.Ascending}},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT `id`, `createdAt`, `name`, `score` FROM `records` WHERE `score` > ? ORDER BY `score` ASC"
	if sql != want {
		t.Fatalf("sql = %s", sql)
	}
}

func TestNullComparisons(t *testing.T) {
	b := newTestBuilder(t, testDialect)
	cases := map[paging.Op]string{
		paging.OpEq:  `"name" IS NULL`,
		paging.OpNe:  `"name" IS NOT NULL`,
		paging.OpGt:  `"name" IS NOT NULL`,
		paging.OpLt:  `FALSE`,
		paging.OpGte: `NOT (FALSE)`,
		paging.OpLte: `"name" IS NULL`,
	}
	for op, want := range cases {
		p, err := b.cmp(paging.Cmp{Field: "name", Op: op})
		if err != nil {
			t.Errorf("%s nil: %v", op, err)
			continue
		}
		sql, args := b.sql().Select("id").From(entsql.Table("records")).Where(p).Query()
		if got := strings.TrimPrefix(sql, `SELECT "id" FROM "records" WHERE `); got != want || len(args) != 0 {
			t.Errorf("%s nil = %q %v; want %q", op, got, args, want)
		}
	}
}

func TestSelectRejectsUnknownFields(t *testing.T) {
	b := newTestBuilder(t, testDialect)
	if _, _, err := b.selectSQL(&paging.Query{Filter: paging.Eq("nope", 1)}); err == nil {
		t.Error("expected error for unknown filter field")
	}
	if _, _, err := b.selectSQL(&paging.Query{Sort: []paging.SortKey{{Field: "nope"}}}); err == nil {
		t.Error("expected error for unknown sort field")
	}
	if _, _, err := b.selectSQL(&paging.Query{Filter: paging.Eq("score", time.Now())}); err == nil {
		t.Error("expected error for time bound to int field")
	}
}

func TestTimeAsUnixNano(t *testing.T) {
	d := *testDialect
	d.TimeAsUnixNano = true
	b := newTestBuilder(t, &d)
	at := time.Unix(5, 7)

	_, args, err := b.selectSQL(&paging.Query{Filter: paging.Gt("createdAt", at)})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(args, []any{at.UnixNano()}) {
		t.Fatalf("args = %v", args)
	}
}

func TestCreateSQL(t *testing.T) {
	b := newTestBuilder(t, testDialect)
	stmts, err := b.createSQL()
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 4 {
		t.Fatalf("expected table + 3 indexes, got %v", stmts)
	}
	if !strings.Contains(stmts[0], `"id" TEXT PRIMARY KEY`) || !strings.Contains(stmts[0], `"createdAt" TIMESTAMPTZ`) {
		t.Errorf("create table = %s", stmts[0])
	}
	if want := `CREATE INDEX IF NOT EXISTS "idx_records_createdAt_id" ON "records" ("createdAt", "id")`; stmts[1] != want {
		t.Errorf("index = %s", stmts[1])
	}

	d := *testDialect
	d.InlineIndexes = true
	d.KeyType = "VARCHAR(26)"
	stmts, err = newTestBuilder(t, &d).createSQL()
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 || !strings.Contains(stmts[0], `INDEX "idx_records_score_id" ("score", "id")`) || !strings.Contains(stmts[0], `"id" VARCHAR(26)`) {
		t.Errorf("inline create = %v", stmts)
	}
}

func TestInsert(t *testing.T) {
	b := newTestBuilder(t, testDialect)
	vals, err := b.insertArgs(paging.Document{"id": "a", "score": 3, "extra": true})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(vals, []any{"a", nil, nil, 3}) {
		t.Fatalf("vals = %v", vals)
	}

	sql, args, err := b.insertSQL([]paging.Document{
		{"id": "a", "score": 3},
		{"id": "b", "name": "x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `INSERT INTO "records" ("id", "createdAt", "name", "score") VALUES ($1, NULL, NULL, $2), ($3, NULL, $4, NULL)`
	if sql != want {
		t.Fatalf("insert =\n%s\nwant\n%s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"a", 3, "b", "x"}) {
		t.Fatalf("args = %v", args)
	}

	if _, _, err := b.insertSQL([]paging.Document{{"id": "a", "score": time.Now()}}); err == nil {
		t.Error("expected error for time bound to int field")
	}
}

func TestNewBuilderValidatesSchema(t *testing.T) {
	bad := [][]*config.Field{
		{{Name: "a.b", Type: config.FieldInt}},
		{{Name: "a", Type: config.FieldInt}, {Name: "a", Type: config.FieldString}},
		{{Name: "a", Type: "blob"}},
		{{Name: `a"b`, Type: config.FieldInt}},
	}
	for i, fields := range bad {
		if _, err := newBuilder(testDialect, "t", "id", fields); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}

	if _, err := newBuilder(testDialect, "t;drop", "id", nil); err == nil {
		t.Error("expected error for invalid table name")
	}

	b, err := newBuilder(testDialect, "t", "id", []*config.Field{{Name: "id", Type: config.FieldInt}})
	if err != nil || b.byName["id"].Type != config.FieldInt {
		t.Fatalf("declared identity type ignored: %v", err)
	}
}
