package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plsweave/plsweave/pkg/cst"
)

// inBody wraps a statement in a minimal package body so it parses in
// statement position.
func inBody(stmt string) string {
	return "PACKAGE BODY X IS\nPROCEDURE P IS\nBEGIN\n" + stmt + "\nEND P;\nEND X;"
}

func TestSql_SelectInto(t *testing.T) {
	tree := Parse(inBody("SELECT id, total INTO id_, total_ FROM customer_order WHERE id = 1;"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())

	sels := tree.FindAll(cst.KindSelectStmt)
	require.Len(t, sels, 1)
	sel := sels[0]
	assert.True(t, sel.FirstChildOfKind(cst.KindSelectList).IsValid())
	assert.True(t, sel.FirstChildOfKind(cst.KindIntoClause).IsValid())
	assert.True(t, sel.FirstChildOfKind(cst.KindFromClause).IsValid())
	assert.True(t, sel.FirstChildOfKind(cst.KindWhereClause).IsValid())

	items := tree.FindAll(cst.KindSelectItem)
	assert.Len(t, items, 2)
}

func TestSql_SelectAliasAndWildcard(t *testing.T) {
	tree := Parse(inBody("SELECT o.id order_id, COUNT(*) AS cnt INTO a_, b_ FROM customer_order o GROUP BY o.id HAVING COUNT(*) > 1 ORDER BY cnt DESC;"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())

	sel := tree.FindAll(cst.KindSelectStmt)[0]
	assert.True(t, sel.FirstChildOfKind(cst.KindGroupByClause).IsValid())
	assert.True(t, sel.FirstChildOfKind(cst.KindHavingClause).IsValid())
	assert.True(t, sel.FirstChildOfKind(cst.KindOrderByClause).IsValid())
	assert.Len(t, tree.FindAll(cst.KindOrderItem), 1)
}

func TestSql_Joins(t *testing.T) {
	tree := Parse(inBody(`SELECT o.id INTO id_
FROM customer_order o
JOIN order_line l ON l.order_id = o.id
LEFT OUTER JOIN customer c ON c.id = o.customer_id;`))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())
	assert.Len(t, tree.FindAll(cst.KindJoinClause), 2)
	assert.Len(t, tree.FindAll(cst.KindTableRef), 3)
}

func TestSql_Union(t *testing.T) {
	tree := Parse(inBody("SELECT id INTO id_ FROM a UNION ALL SELECT id FROM b;"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())

	// UNION wraps the two cores in an outer SelectStmt.
	sels := tree.FindAll(cst.KindSelectStmt)
	assert.Len(t, sels, 3)
	outer := sels[0]
	var cores int
	for _, c := range outer.Children() {
		if c.Kind() == cst.KindSelectStmt {
			cores++
		}
	}
	assert.Equal(t, 2, cores)
}

func TestSql_SubqueryInFrom(t *testing.T) {
	tree := Parse(inBody("SELECT t.id INTO id_ FROM (SELECT id FROM customer_order WHERE state = 'Open') t;"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())
	assert.Len(t, tree.FindAll(cst.KindSelectStmt), 2)
}

func TestSql_InsertValues(t *testing.T) {
	tree := Parse(inBody("INSERT INTO order_tab (id, total) VALUES (1, 99.5);"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())

	ins := tree.FindAll(cst.KindInsertStmt)
	require.Len(t, ins, 1)
	assert.True(t, ins[0].FirstChildOfKind(cst.KindValuesClause).IsValid())
}

func TestSql_InsertSelect(t *testing.T) {
	tree := Parse(inBody("INSERT INTO order_hist SELECT id, total FROM order_tab WHERE state = 'Closed';"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())
	require.Len(t, tree.FindAll(cst.KindInsertStmt), 1)
	assert.Len(t, tree.FindAll(cst.KindSelectStmt), 1)
}

func TestSql_Update(t *testing.T) {
	tree := Parse(inBody("UPDATE order_tab SET state = 'Closed', closed_at = SYSDATE WHERE id = id_;"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())

	upd := tree.FindAll(cst.KindUpdateStmt)
	require.Len(t, upd, 1)
	assert.True(t, upd[0].FirstChildOfKind(cst.KindSetClause).IsValid())
	assert.True(t, upd[0].FirstChildOfKind(cst.KindWhereClause).IsValid())
}

func TestSql_Delete(t *testing.T) {
	tree := Parse(inBody("DELETE FROM order_tab WHERE id = id_;"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())
	assert.Len(t, tree.FindAll(cst.KindDeleteStmt), 1)
}

func TestSql_ComparisonOperators(t *testing.T) {
	stmts := []string{
		"SELECT id INTO id_ FROM t WHERE a BETWEEN 1 AND 10;",
		"SELECT id INTO id_ FROM t WHERE name LIKE 'A%';",
		"SELECT id INTO id_ FROM t WHERE state IN ('Open', 'Planned');",
		"SELECT id INTO id_ FROM t WHERE parent_id IS NOT NULL;",
		"SELECT id INTO id_ FROM t WHERE NOT EXISTS (SELECT id FROM u WHERE u.t_id = t.id);",
		"SELECT id INTO id_ FROM t WHERE id IN (SELECT t_id FROM u);",
	}
	for _, stmt := range stmts {
		tree := Parse(inBody(stmt))
		assert.False(t, tree.HasErrors(), "stmt %q: %v", stmt, tree.Diagnostics())
	}
}

func TestSql_CaseExpression(t *testing.T) {
	tree := Parse(inBody("SELECT CASE WHEN state = 'Open' THEN 1 ELSE 0 END INTO flag_ FROM order_tab;"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())
	assert.Len(t, tree.FindAll(cst.KindCaseExpr), 1)
	assert.Len(t, tree.FindAll(cst.KindCaseWhen), 1)
}

func TestSql_MalformedRegionStopsAtBoundary(t *testing.T) {
	src := inBody("SELECT FROM FROM;\nNULL;")
	tree := Parse(src)
	assert.True(t, tree.HasErrors())
	// The statement after the broken SQL still parses.
	assert.Len(t, tree.FindAll(cst.KindNullStmt), 1)
}

func TestSql_CursorForLoop(t *testing.T) {
	tree := Parse(inBody("FOR rec IN (SELECT id FROM order_tab) LOOP\nNULL;\nEND LOOP;"))
	require.False(t, tree.HasErrors(), "diagnostics: %v", tree.Diagnostics())
	assert.Len(t, tree.FindAll(cst.KindForStmt), 1)
	assert.Len(t, tree.FindAll(cst.KindSelectStmt), 1)
}
