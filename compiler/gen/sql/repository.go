package sql

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/brianporeilly/repogen"
	"github.com/brianporeilly/repogen/compiler/gen"
	"github.com/brianporeilly/repogen/schema/field"
)

// genRepository generates the repository file (<record>_repo.go).
func genRepository(h gen.GeneratorHelper, t *gen.Type) (*jen.File, error) {
	tmpls, err := Synthesize(t)
	if err != nil {
		return nil, err
	}
	f := h.NewFile()
	if h.Graph().Records {
		genRecord(h, f, t)
	}
	genConstants(f, t, tmpls)
	genSpec(f, t)
	genRepositoryType(h, f, t, tmpls)
	genScan(h, f, t)
	genCreateShape(h, f, t)
	genUpdateShape(h, f, t)
	if h.FeatureEnabled(gen.FeatureTemplates.Name) {
		genTemplates(f, t, tmpls)
	}
	return f, nil
}

// genRecord generates the record struct for declarations without a Go type.
func genRecord(h gen.GeneratorHelper, f *jen.File, t *gen.Type) {
	if c := t.Comment(); c != "" {
		for _, line := range strings.Split(c, "\n") {
			f.Comment(line)
		}
	} else {
		f.Commentf("%s is a record of the %s table.", t.Name, t.Table())
	}
	f.Type().Id(t.Name).StructFunc(func(grp *jen.Group) {
		for _, fd := range t.Fields {
			if fd.Comment != "" {
				grp.Comment(fd.Comment)
			}
			grp.Id(fd.Name).Add(h.GoType(fd)).Tag(map[string]string{"json": fd.Column})
		}
	})
}

// genConstants generates the table name, the column list and one constant
// per query template.
func genConstants(f *jen.File, t *gen.Type, tmpls []*Template) {
	f.Commentf("%s is the table of %s records.", t.TableName(), t.Name)
	f.Const().Id(t.TableName()).Op("=").Lit(t.Table())

	f.Commentf("%s holds the columns of %s records, in declaration order.", t.ColumnsName(), t.Name)
	f.Var().Id(t.ColumnsName()).Op("=").Index().String().ValuesFunc(func(grp *jen.Group) {
		for _, c := range t.Columns() {
			grp.Lit(c)
		}
	})

	f.Const().DefsFunc(func(grp *jen.Group) {
		for _, tmpl := range tmpls {
			if len(tmpl.Bindings) > 0 {
				grp.Commentf("%s binds %s.", t.QueryName(tmpl.Name()), bindingList(tmpl.Bindings))
			}
			grp.Id(t.QueryName(tmpl.Name())).Op("=").Lit(tmpl.SQL)
		}
	})
}

// bindingList renders "$1 name, $2 email".
func bindingList(bs []Binding) string {
	items := make([]string, len(bs))
	for i, b := range bs {
		items[i] = fmt.Sprintf("$%d %s", i+1, b)
	}
	return strings.Join(items, ", ")
}

// genSpec generates the runtime table description.
func genSpec(f *jen.File, t *gen.Type) {
	s := Spec(t)
	strs := func(ss []string) jen.Code {
		return jen.Index().String().ValuesFunc(func(grp *jen.Group) {
			for _, v := range ss {
				grp.Lit(v)
			}
		})
	}
	f.Var().Id(t.SpecName()).Op("=").Op("&").Qual(gen.SQLRepoPkg, "TableSpec").Values(jen.DictFunc(func(d jen.Dict) {
		d[jen.Id("Table")] = jen.Id(t.TableName())
		d[jen.Id("ID")] = jen.Lit(s.ID)
		d[jen.Id("Columns")] = jen.Id(t.ColumnsName())
		if s.CreatedAt != "" {
			d[jen.Id("CreatedAt")] = jen.Lit(s.CreatedAt)
		}
		if s.UpdatedAt != "" {
			d[jen.Id("UpdatedAt")] = jen.Lit(s.UpdatedAt)
		}
		if s.DeletedAt != "" {
			d[jen.Id("DeletedAt")] = jen.Lit(s.DeletedAt)
		}
		if len(s.Searchable) > 0 {
			d[jen.Id("Searchable")] = strs(s.Searchable)
		}
		if len(s.Filterable) > 0 {
			d[jen.Id("Filterable")] = strs(s.Filterable)
			d[jen.Id("Types")] = jen.Map(jen.String()).Qual(gen.SQLRepoPkg, "ColumnType").Values(jen.DictFunc(func(d jen.Dict) {
				for _, c := range s.Filterable {
					ct := s.Types[c]
					v := []jen.Code{jen.Id("Category").Op(":").Qual(gen.FieldPkg, categoryIdents[ct.Category])}
					if ct.Nullable {
						v = append(v, jen.Id("Nullable").Op(":").True())
					}
					d[jen.Lit(c)] = jen.Values(v...)
				}
			}))
		}
	}))
}

// categoryIdents names the field.Category constants.
var categoryIdents = map[field.Category]string{
	field.CategoryInvalid:   "CategoryInvalid",
	field.CategoryInteger:   "CategoryInteger",
	field.CategoryFloat:     "CategoryFloat",
	field.CategoryText:      "CategoryText",
	field.CategoryBoolean:   "CategoryBoolean",
	field.CategoryTimestamp: "CategoryTimestamp",
	field.CategoryUUID:      "CategoryUUID",
}

// genRepositoryType generates the repository struct, its constructor and
// its operations.
func genRepositoryType(h gen.GeneratorHelper, f *jen.File, t *gen.Type, tmpls []*Template) {
	var (
		name   = t.RepositoryName()
		recv   = t.Receiver()
		record = jen.Op("*").Add(h.RecordType(t))
		rows   = jen.Id(recv).Dot("rows")
		ctx    = jen.Id("ctx").Qual("context", "Context")
		id     = jen.Id("id").Int64()
		method = func(op string) *jen.Statement {
			return f.Func().Params(jen.Id(recv).Op("*").Id(name)).Id(op)
		}
		query = func(kind Kind, scope repogen.RecordScope) jen.Code {
			tmpl, _ := Lookup(tmpls, kind, scope)
			return jen.Id(t.QueryName(tmpl.Name()))
		}
		// scoped selects the variant of a read matching the query options.
		scoped = func(kind Kind) jen.Code {
			if !t.SoftDelete() {
				return query(kind, repogen.Active)
			}
			return jen.Qual(gen.SQLRepoPkg, "Scoped").Call(
				jen.Id("o").Dot("Scope"),
				query(kind, repogen.Active),
				query(kind, repogen.Deleted),
				query(kind, repogen.All),
			)
		}
		options = func(grp *jen.Group) {
			if t.SoftDelete() {
				grp.Id("o").Op(":=").Qual(gen.RepogenPkg, "NewQueryOptions").Call(jen.Id("opts").Op("..."))
			}
		}
		opts = jen.Id("opts").Op("...").Qual(gen.RepogenPkg, "QueryOption")
	)

	f.Commentf("%s provides typed access to the %s table.", name, t.Table())
	f.Type().Id(name).Struct(
		jen.Id("rows").Op("*").Qual(gen.SQLRepoPkg, "Repo").Types(record),
	)

	f.Commentf("New%s returns a %s executing its statements on drv.", name, name)
	f.Func().Id("New"+name).Params(jen.Id("drv").Qual(gen.DialectPkg, "ExecQuerier")).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Dict{
			jen.Id("rows"): jen.Qual(gen.SQLRepoPkg, "NewRepo").Call(jen.Id("drv"), jen.Id(t.SpecName()), jen.Id(t.ScanName())),
		})),
	)

	insert, _ := Lookup(tmpls, KindInsert, repogen.Active)
	f.Commentf("Create inserts a %s and returns the stored row.", t.Name)
	method("Create").Params(ctx, jen.Id("input").Id(t.CreateName())).Params(record, jen.Error()).Block(
		jen.Return(rows.Clone().Dot("One").CallFunc(func(grp *jen.Group) {
			grp.Id("ctx")
			grp.Lit("create")
			grp.Nil()
			grp.Id(t.QueryName(insert.Name()))
			for _, b := range insert.Bindings {
				grp.Add(bindArg(b))
			}
		})),
	)

	if t.SoftDelete() {
		f.Commentf("FindByID returns the %s with the given id. Soft-deleted rows are", t.Name)
		f.Comment("found only with the repogen.WithScope or repogen.WithDeleted options.")
	} else {
		f.Commentf("FindByID returns the %s with the given id.", t.Name)
	}
	method("FindByID").Params(ctx, id, opts).Params(record, jen.Error()).BlockFunc(func(grp *jen.Group) {
		options(grp)
		grp.Return(rows.Clone().Dot("One").Call(jen.Id("ctx"), jen.Lit("find"), jen.Id("id"), scoped(KindFindByID), jen.Id("id")))
	})

	f.Commentf("FindAll returns every %s, ordered by %s.", t.Name, t.ID.Column)
	method("FindAll").Params(ctx, opts).Params(jen.Index().Add(record), jen.Error()).BlockFunc(func(grp *jen.Group) {
		options(grp)
		grp.Return(rows.Clone().Dot("All").Call(jen.Id("ctx"), jen.Lit("find_all"), scoped(KindFindAll)))
	})

	f.Commentf("Count returns the number of %s rows.", t.Name)
	method("Count").Params(ctx, opts).Params(jen.Int64(), jen.Error()).BlockFunc(func(grp *jen.Group) {
		options(grp)
		grp.Return(rows.Clone().Dot("Count").Call(jen.Id("ctx"), jen.Lit("count"), scoped(KindCount)))
	})

	f.Commentf("CountMatching returns the number of %s rows matching the text query,", t.Name)
	f.Comment("the filters and the scope of params.")
	method("CountMatching").Params(ctx, jen.Id("params").Qual(gen.RepogenPkg, "SearchParams")).Params(jen.Int64(), jen.Error()).Block(
		jen.Return(rows.Clone().Dot("CountMatching").Call(jen.Id("ctx"), jen.Id("params"))),
	)

	f.Commentf("Update writes the set fields of input to the %s with the given id and", t.Name)
	f.Comment("returns the stored row. An input without set fields returns the current row.")
	method("Update").Params(ctx, id, jen.Id("input").Id(t.UpdateName())).Params(record, jen.Error()).Block(
		jen.Return(rows.Clone().Dot("Update").Call(jen.Id("ctx"), jen.Id("id"), jen.Id("input").Dot("assignments").Call())),
	)

	if t.SoftDelete() {
		f.Commentf("Delete marks the %s with the given id as deleted. It reports false if", t.Name)
		f.Comment("no active row matched.")
		method("Delete").Params(ctx, id).Params(jen.Bool(), jen.Error()).Block(
			jen.Return(rows.Clone().Dot("Affected").Call(jen.Id("ctx"), jen.Lit("delete"), query(KindSoftDelete, repogen.Active), jen.Id("id"))),
		)
	} else {
		f.Commentf("Delete removes the %s with the given id. It reports false if no row", t.Name)
		f.Comment("matched.")
		method("Delete").Params(ctx, id).Params(jen.Bool(), jen.Error()).Block(
			jen.Return(rows.Clone().Dot("Affected").Call(jen.Id("ctx"), jen.Lit("delete"), query(KindHardDelete, repogen.Active), jen.Id("id"))),
		)
	}

	f.Commentf("HardDelete removes the %s with the given id from the table. It reports", t.Name)
	f.Comment("false if no row matched.")
	method("HardDelete").Params(ctx, id).Params(jen.Bool(), jen.Error()).Block(
		jen.Return(rows.Clone().Dot("Affected").Call(jen.Id("ctx"), jen.Lit("hard_delete"), query(KindHardDelete, repogen.Active), jen.Id("id"))),
	)

	if t.SoftDelete() {
		f.Commentf("Restore clears the deletion mark of the %s with the given id and returns", t.Name)
		f.Comment("the stored row.")
		method("Restore").Params(ctx, id).Params(record, jen.Error()).Block(
			jen.Return(rows.Clone().Dot("One").Call(jen.Id("ctx"), jen.Lit("restore"), jen.Id("id"), query(KindRestore, repogen.Active), jen.Id("id"))),
		)
	}

	f.Commentf("Search returns one page of the %s rows matching params.", t.Name)
	method("Search").Params(ctx, jen.Id("params").Qual(gen.RepogenPkg, "SearchParams")).Params(
		jen.Op("*").Qual(gen.RepogenPkg, "SearchResult").Types(record), jen.Error(),
	).Block(
		jen.Return(rows.Clone().Dot("Search").Call(jen.Id("ctx"), jen.Id("params"))),
	)
}

// bindArg returns the expression bound for b inside an operation: the id
// parameter for the primary key and the input field otherwise.
func bindArg(b Binding) jen.Code {
	if b.Field == nil {
		return jen.Id(b.Param)
	}
	if b.Field.IsPK() {
		return jen.Id("id")
	}
	v := jen.Id("input").Dot(b.Field.Name)
	if b.Field.IsList() {
		return jen.Qual(gen.PQPkg, "Array").Call(v)
	}
	return v
}

// genScan generates the row mapper, scanning UserColumns in order.
func genScan(h gen.GeneratorHelper, f *jen.File, t *gen.Type) {
	f.Commentf("%s scans a row of %s into a %s.", t.ScanName(), t.ColumnsName(), t.Name)
	f.Func().Id(t.ScanName()).Params(jen.Id("rows").Qual(gen.SQLPkg, "ColumnScanner")).Params(
		jen.Op("*").Add(h.RecordType(t)), jen.Error(),
	).Block(
		jen.Id("v").Op(":=").Op("&").Add(h.RecordType(t)).Values(),
		jen.If(
			jen.Err().Op(":=").Id("rows").Dot("Scan").CallFunc(func(grp *jen.Group) {
				for _, fd := range t.Fields {
					grp.Add(scanDest(fd))
				}
			}),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("v"), jen.Nil()),
	)
}

// scanDest returns the scan destination of a field. Lists of element types
// that pq.Array cannot scan into go through the sqlrepo array scanners.
func scanDest(fd *gen.Field) jen.Code {
	dest := jen.Op("&").Id("v").Dot(fd.Name)
	if !fd.IsList() {
		return dest
	}
	switch fd.Type.Type {
	case field.TypeInt, field.TypeInt16, field.TypeUint16, field.TypeUint32:
		return jen.Qual(gen.SQLRepoPkg, "IntArray").Call(dest)
	case field.TypeTime:
		return jen.Qual(gen.SQLRepoPkg, "TimeArray").Call(dest)
	default:
		return jen.Qual(gen.PQPkg, "Array").Call(dest)
	}
}

// genCreateShape generates the input of Create.
func genCreateShape(h gen.GeneratorHelper, f *jen.File, t *gen.Type) {
	f.Commentf("%s holds the fields of a new %s. The primary key, the audit", t.CreateName(), t.Name)
	f.Comment("columns and the deletion mark are set by the database.")
	f.Type().Id(t.CreateName()).StructFunc(func(grp *jen.Group) {
		for _, fd := range t.CreateFields() {
			grp.Id(fd.Name).Add(h.GoType(fd)).Tag(map[string]string{"json": fd.Column})
		}
	})
}

// genUpdateShape generates the input of Update with one repogen.Patch per
// mutable field.
func genUpdateShape(h gen.GeneratorHelper, f *jen.File, t *gen.Type) {
	var (
		name   = t.UpdateName()
		fields = t.UpdateFields()
	)
	f.Commentf("%s holds the fields of a %s update. Fields that are not set are", name, t.Name)
	f.Comment("left unchanged.")
	f.Type().Id(name).StructFunc(func(grp *jen.Group) {
		for _, fd := range fields {
			grp.Id(fd.Name).Qual(gen.RepogenPkg, "Patch").Types(h.GoType(fd)).Tag(map[string]string{"json": fd.Column})
		}
	})

	f.Comment("IsEmpty reports whether no field is set.")
	f.Func().Params(jen.Id("u").Id(name)).Id("IsEmpty").Params().Bool().BlockFunc(func(grp *jen.Group) {
		if len(fields) == 0 {
			grp.Return(jen.True())
			return
		}
		var expr *jen.Statement
		for i, fd := range fields {
			c := jen.Op("!").Id("u").Dot(fd.Name).Dot("Set")
			if i == 0 {
				expr = c
			} else {
				expr = expr.Op("&&").Add(c)
			}
		}
		grp.Return(expr)
	})

	f.Comment("assignments returns the set fields in declaration order.")
	f.Func().Params(jen.Id("u").Id(name)).Id("assignments").Params().Index().Qual(gen.SQLRepoPkg, "Assignment").BlockFunc(func(grp *jen.Group) {
		if len(fields) == 0 {
			grp.Return(jen.Nil())
			return
		}
		grp.Var().Id("set").Index().Qual(gen.SQLRepoPkg, "Assignment")
		for _, fd := range fields {
			v := jen.Id("u").Dot(fd.Name).Dot("Value")
			if fd.IsList() {
				v = jen.Qual(gen.PQPkg, "Array").Call(v)
			}
			grp.If(jen.Id("u").Dot(fd.Name).Dot("Set")).Block(
				jen.Id("set").Op("=").Append(jen.Id("set"), jen.Qual(gen.SQLRepoPkg, "Assignment").Values(jen.Dict{
					jen.Id("Column"): jen.Lit(fd.Column),
					jen.Id("Value"):  v,
				})),
			)
		}
		grp.Return(jen.Id("set"))
	})
}

// genTemplates generates the exported map of every query template.
func genTemplates(f *jen.File, t *gen.Type, tmpls []*Template) {
	f.Commentf("%sTemplates holds the SQL of every %s statement, keyed by operation.", t.Name, t.Name)
	f.Var().Id(t.Name+"Templates").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
		for _, tmpl := range tmpls {
			d[jen.Lit(tmpl.Name())] = jen.Id(t.QueryName(tmpl.Name()))
		}
	}))
}
