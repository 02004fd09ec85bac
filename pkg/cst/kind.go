package cst

// Kind identifies the grammar production (or leaf token) a node represents.
type Kind uint16

// Node kinds.
const (
	KindNil Kind = iota
	KindToken
	KindError

	// Top-level forms
	KindFile
	KindPackageSpec
	KindPackageBody
	KindEntity
	KindEnumeration
	KindViews
	KindStorage

	// Declarations and members
	KindAnnotation
	KindProcedure
	KindFunction
	KindParamList
	KindParam
	KindTypeRef
	KindConstantDecl
	KindVariableDecl
	KindExceptionDecl
	KindTypeDecl
	KindSubtypeDecl
	KindCursorDecl
	KindPragma
	KindBlock
	KindExceptionHandler

	// Statements
	KindAssignStmt
	KindCallStmt
	KindIfStmt
	KindElsifClause
	KindElseClause
	KindLoopStmt
	KindWhileStmt
	KindForStmt
	KindReturnStmt
	KindRaiseStmt
	KindExitStmt
	KindNullStmt

	// Code-weaving directives
	KindDirective
	KindDirectiveAnchor
	KindDirectivePayload

	// Embedded SQL
	KindSqlStmt
	KindSelectStmt
	KindSelectList
	KindSelectItem
	KindIntoClause
	KindFromClause
	KindTableRef
	KindJoinClause
	KindWhereClause
	KindGroupByClause
	KindHavingClause
	KindOrderByClause
	KindOrderItem
	KindInsertStmt
	KindUpdateStmt
	KindDeleteStmt
	KindSetClause
	KindValuesClause

	// Expressions
	KindBinaryExpr
	KindUnaryExpr
	KindParenExpr
	KindCallExpr
	KindNameRef
	KindAttrExpr
	KindCaseExpr
	KindCaseWhen

	// Non-PLSQL file forms
	KindLayerClause
	KindSection
	KindProperty
	KindColumnDef
	KindViewDef
	KindTableDef
	KindIndexDef
	KindSequenceDef
)

var kindNames = map[Kind]string{
	KindNil:              "Nil",
	KindToken:            "Token",
	KindError:            "Error",
	KindFile:             "File",
	KindPackageSpec:      "PackageSpec",
	KindPackageBody:      "PackageBody",
	KindEntity:           "Entity",
	KindEnumeration:      "Enumeration",
	KindViews:            "Views",
	KindStorage:          "Storage",
	KindAnnotation:       "Annotation",
	KindProcedure:        "Procedure",
	KindFunction:         "Function",
	KindParamList:        "ParamList",
	KindParam:            "Param",
	KindTypeRef:          "TypeRef",
	KindConstantDecl:     "ConstantDecl",
	KindVariableDecl:     "VariableDecl",
	KindExceptionDecl:    "ExceptionDecl",
	KindTypeDecl:         "TypeDecl",
	KindSubtypeDecl:      "SubtypeDecl",
	KindCursorDecl:       "CursorDecl",
	KindPragma:           "Pragma",
	KindBlock:            "Block",
	KindExceptionHandler: "ExceptionHandler",
	KindAssignStmt:       "AssignStmt",
	KindCallStmt:         "CallStmt",
	KindIfStmt:           "IfStmt",
	KindElsifClause:      "ElsifClause",
	KindElseClause:       "ElseClause",
	KindLoopStmt:         "LoopStmt",
	KindWhileStmt:        "WhileStmt",
	KindForStmt:          "ForStmt",
	KindReturnStmt:       "ReturnStmt",
	KindRaiseStmt:        "RaiseStmt",
	KindExitStmt:         "ExitStmt",
	KindNullStmt:         "NullStmt",
	KindDirective:        "Directive",
	KindDirectiveAnchor:  "DirectiveAnchor",
	KindDirectivePayload: "DirectivePayload",
	KindSqlStmt:          "SqlStmt",
	KindSelectStmt:       "SelectStmt",
	KindSelectList:       "SelectList",
	KindSelectItem:       "SelectItem",
	KindIntoClause:       "IntoClause",
	KindFromClause:       "FromClause",
	KindTableRef:         "TableRef",
	KindJoinClause:       "JoinClause",
	KindWhereClause:      "WhereClause",
	KindGroupByClause:    "GroupByClause",
	KindHavingClause:     "HavingClause",
	KindOrderByClause:    "OrderByClause",
	KindOrderItem:        "OrderItem",
	KindInsertStmt:       "InsertStmt",
	KindUpdateStmt:       "UpdateStmt",
	KindDeleteStmt:       "DeleteStmt",
	KindSetClause:        "SetClause",
	KindValuesClause:     "ValuesClause",
	KindBinaryExpr:       "BinaryExpr",
	KindUnaryExpr:        "UnaryExpr",
	KindParenExpr:        "ParenExpr",
	KindCallExpr:         "CallExpr",
	KindNameRef:          "NameRef",
	KindAttrExpr:         "AttrExpr",
	KindCaseExpr:         "CaseExpr",
	KindCaseWhen:         "CaseWhen",
	KindLayerClause:      "LayerClause",
	KindSection:          "Section",
	KindProperty:         "Property",
	KindColumnDef:        "ColumnDef",
	KindViewDef:          "ViewDef",
	KindTableDef:         "TableDef",
	KindIndexDef:         "IndexDef",
	KindSequenceDef:      "SequenceDef",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(?)"
}

// KindByName returns the kind with the given name. Used by the query CLI
// so callers can name kinds as strings.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindNil, false
}

// IsStatement returns true for statement-level kinds.
func (k Kind) IsStatement() bool {
	switch k {
	case KindAssignStmt, KindCallStmt, KindIfStmt, KindLoopStmt,
		KindWhileStmt, KindForStmt, KindReturnStmt, KindRaiseStmt,
		KindExitStmt, KindNullStmt, KindSqlStmt, KindBlock, KindDirective:
		return true
	}
	return false
}

// IsTopLevel returns true for kinds that can appear directly under File.
func (k Kind) IsTopLevel() bool {
	switch k {
	case KindPackageSpec, KindPackageBody, KindEntity, KindEnumeration,
		KindViews, KindStorage, KindProcedure, KindFunction,
		KindAnnotation, KindDirective, KindError:
		return true
	}
	return false
}
