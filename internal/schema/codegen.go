// Copyright 2026 The zeroarc Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// Generate produces one Go source file per declared type, keyed by a
// filename of the form "{snake_case name}_archive.go". It assumes s has
// already been validated (Validate) and ordered (Order); Order's returned
// slice should be passed as order so that a type referencing another by
// value or by box/vec/shared never needs a forward declaration.
//
// The emitted code is unformatted Go source; cmd/archivegen runs it
// through golang.org/x/tools/imports before writing it out, the same way
// any generator using that package does.
func Generate(s *Schema, order []string) (map[string][]byte, error) {
	byName := s.byName()
	out := make(map[string][]byte, len(order))
	for _, name := range order {
		t := byName[name]
		g := &gen{schema: s, width: s.PointerWidth}
		g.header(s.Package, importsFor(t))

		var err error
		switch t.Kind {
		case "struct":
			err = g.genStruct(t)
		case "enum":
			err = g.genEnum(t)
		default:
			err = fmt.Errorf("schema: %s: unknown kind %q", t.Name, t.Kind)
		}
		if err != nil {
			return nil, err
		}
		out[snakeCase(t.Name)+"_archive.go"] = []byte(g.buf.String())
	}
	out["zz_runtime_archive.go"] = []byte(runtimeFile(s.Package))
	return out, nil
}

// runtimeFile emits the one helper every generated file in a package may
// call but none may declare more than once: a sizeOf that stands in for
// internal/xunsafe/layout.Size, which generated code can't import since it
// targets a module other than zeroarc's own (spec §9's derive-macro tool
// has to be self-contained in whatever module it's generating into).
func runtimeFile(pkg string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by archivegen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "import \"unsafe\"\n\n")
	fmt.Fprintf(&b, "func sizeOf[T any]() int {\n\tvar z T\n\treturn int(unsafe.Sizeof(z))\n}\n")
	return b.String()
}

// importFlags records which of the optional generated-file imports one
// type's fields actually exercise, so header only emits imports the file
// goes on to use; Go treats an unused import as a compile error.
type importFlags struct {
	relptr, zerr, sharetag, share, unsafe bool
}

// importsFor scans t's fields (or, for an enum, every variant's fields) and
// reports which optional imports its generated code will reference.
func importsFor(t *TypeDef) importFlags {
	if t.Kind == "enum" {
		// Every variant gets an As{Variant} accessor that reinterprets the
		// shared payload bytes in place, even when that variant carries no
		// fields, so unsafe is always needed here.
		return importFlags{zerr: true, unsafe: true}
	}
	var flags importFlags
	for _, f := range t.Fields {
		if f.Box || f.Vec || f.Shared != "" || f.Type == "string" {
			flags.relptr = true
			flags.zerr = true
			// Deserialize chases the field's pointer through its own cell
			// address.
			flags.unsafe = true
		}
		if f.Shared != "" {
			flags.sharetag = true
			flags.share = true
		}
	}
	return flags
}

// gen accumulates one type's generated source.
type gen struct {
	schema *Schema
	width  int
	buf    strings.Builder
}

func (g *gen) p(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

func (g *gen) header(pkg string, flags importFlags) {
	g.p("// Code generated by archivegen. DO NOT EDIT.")
	g.p("")
	g.p("package %s", pkg)
	g.p("")
	g.p("import (")
	if flags.unsafe {
		g.p("\t\"unsafe\"")
		g.p("")
	}
	g.p("\t\"github.com/zeroarc/zeroarc\"")
	g.p("\t\"github.com/zeroarc/zeroarc/place\"")
	g.p("\t\"github.com/zeroarc/zeroarc/prim\"")
	if flags.relptr {
		g.p("\t\"github.com/zeroarc/zeroarc/relptr\"")
	}
	if flags.share {
		g.p("\t\"github.com/zeroarc/zeroarc/share\"")
	}
	if flags.sharetag {
		g.p("\t\"github.com/zeroarc/zeroarc/sharetag\"")
	}
	g.p("\t\"github.com/zeroarc/zeroarc/validate\"")
	if flags.zerr {
		g.p("\t\"github.com/zeroarc/zeroarc/zerr\"")
	}
	g.p(")")
	g.p("")
}

// relWidth names the relptr family member and its accompanying functions
// for the Schema's configured pointer width.
type relWidth struct {
	typeSuffix string // "16", "32" or "64"
	byteSize   int
}

func (g *gen) rel() relWidth {
	switch g.width {
	case 16:
		return relWidth{"16", 2}
	case 64:
		return relWidth{"64", 8}
	default:
		return relWidth{"32", 4}
	}
}

// archivedPrim names the prim wrapper type backing each primitive.
// Wrappers carry the primitive's natural size and alignment (spec §4.1),
// which is what makes Go's own layout of a generated archived struct
// satisfy the alignment law (spec §8 property 8) without hand-inserted
// padding.
var archivedPrim = map[string]string{
	"i8": "prim.ArchivedI8", "i16": "prim.ArchivedI16",
	"i32": "prim.ArchivedI32", "i64": "prim.ArchivedI64",
	"u8": "prim.ArchivedU8", "u16": "prim.ArchivedU16",
	"u32": "prim.ArchivedU32", "u64": "prim.ArchivedU64",
	"f32": "prim.ArchivedF32", "f64": "prim.ArchivedF64",
	"bool": "prim.ArchivedBool", "char": "prim.ArchivedChar",
}

func archivedTypeName(typeName string) string {
	if p, ok := archivedPrim[typeName]; ok {
		return p
	}
	return "Archived" + typeName
}

func resolverTypeName(typeName string) string {
	if _, ok := primitives[typeName]; ok || typeName == "string" {
		return ""
	}
	return lowerFirst(typeName) + "Resolver"
}

// genStruct emits a product type's native type, archived type, resolver,
// Serialize/Archive and ValidateBytes (spec §4.6, "Product
// (struct/tuple)").
func (g *gen) genStruct(t *TypeDef) error {
	rw := g.rel()

	g.p("type %s struct {", t.Name)
	for _, f := range t.Fields {
		g.p("\t%s %s", f.Name, nativeFieldType(f))
	}
	g.p("}")
	g.p("")

	g.p("type Archived%s struct {", t.Name)
	for _, f := range t.Fields {
		g.p("\t%s %s", lowerFirst(f.Name), archivedFieldType(f, rw))
	}
	g.p("}")
	g.p("")

	resolverName := lowerFirst(t.Name) + "Resolver"
	g.p("type %s struct {", resolverName)
	g.p("\torder prim.Order")
	for _, f := range t.Fields {
		if rt := fieldResolverType(f, rw); rt != "" {
			g.p("\t%s %s", lowerFirst(f.Name), rt)
		}
	}
	g.p("}")
	g.p("")

	g.p("func (v %s) Serialize(ctx *zeroarc.Context) (%s, error) {", t.Name, resolverName)
	g.p("\tr := %s{order: ctx.Order}", resolverName)
	for _, f := range t.Fields {
		if err := g.serializeField(f, "v."+f.Name, "r."+lowerFirst(f.Name)); err != nil {
			return fmt.Errorf("%s.%s: %w", t.Name, f.Name, err)
		}
	}
	g.p("\treturn r, nil")
	g.p("}")
	g.p("")

	g.p("func (v %s) Archive(p place.Place[Archived%s], r %s) error {", t.Name, t.Name, resolverName)
	for _, f := range t.Fields {
		g.archiveField(t.Name, f, "v."+f.Name, "r."+lowerFirst(f.Name))
	}
	g.p("\treturn nil")
	g.p("}")
	g.p("")

	g.p("func (a Archived%s) ValidateBytes(v *validate.Validator, pos int) error {", t.Name)
	for _, f := range t.Fields {
		g.validateField(t.Name, f)
	}
	g.p("\treturn nil")
	g.p("}")
	g.p("")

	g.p("func (%s) Deserialize(a *Archived%s, d *zeroarc.Deserializer) (%s, error) {", t.Name, t.Name, t.Name)
	g.p("\tvar out %s", t.Name)
	for _, f := range t.Fields {
		g.deserializeField(f)
	}
	g.p("\treturn out, nil")
	g.p("}")
	g.p("")
	return nil
}

// deserializeField emits the owned-native reconstruction of one field
// (spec §4.6, "deserialize"): primitives load straight out of the
// archived bytes, indirected fields chase their pointer through its own
// cell address and recurse into the pointee's Deserialize.
func (g *gen) deserializeField(f FieldDef) {
	rw := g.rel()
	name := lowerFirst(f.Name)
	switch {
	case f.Vec:
		elemType := archivedTypeName(f.Type)
		g.p("\t{")
		g.p("\t\tn := int(a.%s.len.Get(d.Order))", name)
		g.p("\t\tif n != 0 {")
		g.p("\t\t\tbase := relptr.Deref%s(&a.%s.ptr, (*byte)(unsafe.Pointer(&a.%s.ptr)), d.Order)", rw.typeSuffix, name, name)
		g.p("\t\t\tout.%s = make([]%s, n)", f.Name, nativeElemType(f.Type))
		g.p("\t\t\tfor i := range out.%s {", f.Name)
		g.p("\t\t\t\telem := (*%s)(unsafe.Add(unsafe.Pointer(base), uintptr(i)*uintptr(sizeOf[%s]())))", elemType, elemType)
		if _, ok := primitives[f.Type]; ok {
			g.p("\t\t\t\tout.%s[i] = %s", f.Name, primGetExpr(f.Type, "elem", "d.Order"))
		} else {
			g.p("\t\t\t\tv, err := %s{}.Deserialize(elem, d)", f.Type)
			g.p("\t\t\t\tif err != nil { return out, err }")
			g.p("\t\t\t\tout.%s[i] = v", f.Name)
		}
		g.p("\t\t\t}")
		g.p("\t\t}")
		g.p("\t}")
	case f.Shared != "":
		g.p("\t{")
		if f.Optional {
			g.p("\t\tif !a.%s.ptr.IsNull(d.Order) {", name)
		}
		g.p("\t\tpayload := relptr.Deref%s(&a.%s.ptr, (*byte)(unsafe.Pointer(&a.%s.ptr)), d.Order)", rw.typeSuffix, name, name)
		g.p("\t\tp, err := zeroarc.Shared(d, zeroarc.PosOf(d, payload), func() (*%s, error) {", f.Type)
		g.p("\t\t\tv, err := %s{}.Deserialize(payload, d)", f.Type)
		g.p("\t\t\tif err != nil { return nil, err }")
		g.p("\t\t\treturn &v, nil")
		g.p("\t\t})")
		g.p("\t\tif err != nil { return out, err }")
		g.p("\t\tout.%s = p", f.Name)
		if f.Optional {
			g.p("\t\t}")
		}
		g.p("\t}")
	case f.Box:
		g.p("\t{")
		if f.Optional {
			g.p("\t\tif !a.%s.IsNull(d.Order) {", name)
		}
		g.p("\t\tpointee := relptr.Deref%s(&a.%s, (*byte)(unsafe.Pointer(&a.%s)), d.Order)", rw.typeSuffix, name, name)
		g.p("\t\tv, err := %s{}.Deserialize(pointee, d)", f.Type)
		g.p("\t\tif err != nil { return out, err }")
		g.p("\t\tout.%s = &v", f.Name)
		if f.Optional {
			g.p("\t\t}")
		}
		g.p("\t}")
	case f.Type == "string":
		g.p("\t{")
		g.p("\t\tn := int(a.%s.len.Get(d.Order))", name)
		g.p("\t\tif n != 0 {")
		g.p("\t\t\tbase := relptr.Deref%s(&a.%s.ptr, (*byte)(unsafe.Pointer(&a.%s.ptr)), d.Order)", rw.typeSuffix, name, name)
		g.p("\t\t\tout.%s = string(unsafe.Slice(base, n))", f.Name)
		g.p("\t\t}")
		g.p("\t}")
	default:
		if _, ok := primitives[f.Type]; ok {
			g.p("\tout.%s = %s", f.Name, primGetExpr(f.Type, "a."+name, "d.Order"))
			return
		}
		g.p("\t{")
		g.p("\t\tv, err := %s{}.Deserialize(&a.%s, d)", f.Type, name)
		g.p("\t\tif err != nil { return out, err }")
		g.p("\t\tout.%s = v", f.Name)
		g.p("\t}")
	}
}

// project builds a Go expression of type place.Place[subType] for the
// sub-component of fieldGoName (selector is "" for the field itself, or a
// leading-dot selector like ".ptr" for one of its own sub-fields) within
// Archived{typeName}, computed against p (the struct's own place) the same
// way container/box.go and its siblings compute a field's Place inline
// inside Archive rather than caching an offset.
func (g *gen) project(typeName, fieldGoName, selector, subType string) string {
	return fmt.Sprintf(
		"place.Project[Archived%s, %s](p, place.Offset(func(a *Archived%s) *%s { return &a.%s%s }))",
		typeName, subType, typeName, subType, fieldGoName, selector)
}

// fieldPos is project's counterpart for ValidateBytes, which walks raw
// buffer positions rather than Places: it returns a Go expression for the
// absolute byte position of the same sub-component, given that the
// enclosing Archived{typeName} begins at "pos".
func (g *gen) fieldPos(typeName, fieldGoName, selector, subType string) string {
	return fmt.Sprintf(
		"pos+int(place.Offset(func(a *Archived%s) *%s { return &a.%s%s }))",
		typeName, subType, fieldGoName, selector)
}

func nativeFieldType(f FieldDef) string {
	switch {
	case f.Vec:
		return "[]" + nativeElemType(f.Type)
	case f.Box, f.Shared != "":
		return "*" + nativeElemType(f.Type)
	case f.Type == "string":
		return "string"
	default:
		return nativeElemType(f.Type)
	}
}

func nativeElemType(typeName string) string {
	if p, ok := primitives[typeName]; ok {
		return p.goType
	}
	if typeName == "string" {
		return "string"
	}
	return typeName
}

func archivedFieldType(f FieldDef, rw relWidth) string {
	switch {
	case f.Vec:
		return fmt.Sprintf("struct {\n\t\tptr relptr.Rel%s[%s]\n\t\tlen prim.ArchivedU32\n\t}", rw.typeSuffix, archivedTypeName(f.Type))
	case f.Shared != "":
		return fmt.Sprintf("struct {\n\t\ttag sharetag.Tag\n\t\tptr relptr.Rel%s[%s]\n\t}", rw.typeSuffix, archivedTypeName(f.Type))
	case f.Box:
		return fmt.Sprintf("relptr.Rel%s[%s]", rw.typeSuffix, archivedTypeName(f.Type))
	case f.Type == "string":
		return fmt.Sprintf("struct {\n\t\tptr relptr.Rel%s[byte]\n\t\tlen prim.ArchivedU32\n\t}", rw.typeSuffix)
	default:
		return archivedTypeName(f.Type)
	}
}

func fieldResolverType(f FieldDef, rw relWidth) string {
	switch {
	case f.Vec:
		return fmt.Sprintf("struct {\n\t\tbase int\n\t\tn    int\n\t\telems []%s\n\t}", resolverRefTypeOrZero(f.Type))
	case f.Shared != "":
		return "struct {\n\t\ttag sharetag.Tag\n\t\tpos int\n\t}"
	case f.Box:
		return "struct {\n\t\tpos  int\n\t\tnull bool\n\t}"
	case f.Type == "string":
		return "struct {\n\t\tpos, n int\n\t}"
	default:
		// Inline by-value field of another declared type: its own
		// resolver is carried verbatim.
		if rn := resolverTypeName(f.Type); rn != "" {
			return rn
		}
		return ""
	}
}

func resolverRefTypeOrZero(typeName string) string {
	if rn := resolverTypeName(typeName); rn != "" {
		return rn
	}
	return "struct{}"
}

func (g *gen) serializeField(f FieldDef, nativeExpr, resolverExpr string) error {
	switch {
	case f.Vec:
		g.p("\t{")
		g.p("\t\telems := make([]%s, len(%s))", resolverRefTypeOrZero(f.Type), nativeExpr)
		g.p("\t\tfor i, elem := range %s {", nativeExpr)
		g.serializeElem(f.Type, "elem", "er", true)
		g.p("\t\t\telems[i] = er")
		g.p("\t\t}")
		g.p("\t\tif len(%s) > 0 {", nativeExpr)
		g.p("\t\t\tbase, err := place.ReserveN[%s](ctx.W, len(%s))", archivedTypeName(f.Type), nativeExpr)
		g.p("\t\t\tif err != nil { return r, ctx.Fail(err) }")
		g.p("\t\t\tfor i, elem := range %s {", nativeExpr)
		g.archiveElemAt(f.Type, "elem", "place.Index(base, i)", "elems[i]")
		g.p("\t\t\t}")
		g.p("\t\t\t%s.base, %s.n, %s.elems = base.Pos(), len(%s), elems", resolverExpr, resolverExpr, resolverExpr, nativeExpr)
		g.p("\t\t}")
		g.p("\t}")
	case f.Shared != "":
		g.p("\tif %s == nil { return r, ctx.Fail(zerr.New(zerr.User)) }", nativeExpr)
		g.p("\t{")
		g.p("\t\ttag := sharetag.Of[%s]()", archivedTypeName(f.Type))
		g.p("\t\tid := share.Identity(%s)", nativeExpr)
		g.p("\t\tpos, err := ctx.Shared.Strong(id, tag, func() (int, error) {")
		g.p("\t\t\tp, err := zeroarc.Serialize[%s, %s](ctx, *%s)", archivedTypeName(f.Type), resolverRefTypeOrZero(f.Type), nativeExpr)
		g.p("\t\t\tif err != nil { return 0, err }")
		g.p("\t\t\treturn p.Pos(), nil")
		g.p("\t\t})")
		g.p("\t\tif err != nil { return r, ctx.Fail(err) }")
		g.p("\t\t%s.tag, %s.pos = tag, pos", resolverExpr, resolverExpr)
		g.p("\t}")
	case f.Box:
		g.p("\tif %s == nil {", nativeExpr)
		if !f.Optional {
			g.p("\t\treturn r, ctx.Fail(zerr.New(zerr.User))")
		} else {
			g.p("\t\t%s.null = true", resolverExpr)
		}
		g.p("\t} else {")
		g.p("\t\tp, err := zeroarc.Serialize[%s, %s](ctx, *%s)", archivedTypeName(f.Type), resolverRefTypeOrZero(f.Type), nativeExpr)
		g.p("\t\tif err != nil { return r, ctx.Fail(err) }")
		g.p("\t\t%s.pos = p.Pos()", resolverExpr)
		g.p("\t}")
	case f.Type == "string":
		g.p("\t{")
		g.p("\t\tpos, err := ctx.W.WriteSlice([]byte(%s))", nativeExpr)
		g.p("\t\tif err != nil { return r, ctx.Fail(err) }")
		g.p("\t\t%s.pos, %s.n = pos, len(%s)", resolverExpr, resolverExpr, nativeExpr)
		g.p("\t}")
	default:
		if _, ok := primitives[f.Type]; ok {
			// Primitive fields need no per-value resolver state; they're
			// encoded directly from v in Archive using r.order.
			return nil
		}
		g.p("\t{")
		g.p("\t\tsub, err := %s.Serialize(ctx)", nativeExpr)
		g.p("\t\tif err != nil { return r, ctx.Fail(err) }")
		g.p("\t\t%s = sub", resolverExpr)
		g.p("\t}")
	}
	return nil
}

// serializeElem serializes one Vec element, for use inside the per-element
// loop built by serializeField's Vec case.
func (g *gen) serializeElem(typeName, nativeVar, resultVar string, declare bool) {
	decl := ":="
	if !declare {
		decl = "="
	}
	if _, ok := primitives[typeName]; ok {
		g.p("\t\t\tvar %s %s", resultVar, resolverRefTypeOrZero(typeName))
		return
	}
	g.p("\t\t\t%s, err %s %s.Serialize(ctx)", resultVar, decl, nativeVar)
	g.p("\t\t\tif err != nil { return r, ctx.Fail(err) }")
}

func (g *gen) archiveElemAt(typeName, nativeVar, placeExpr, resolverExpr string) {
	if _, ok := primitives[typeName]; ok {
		g.p("\t\t\t\tvar eb %s", archivedTypeName(typeName))
		g.primSet("\t\t\t\t", "eb", typeName, nativeVar, "r.order")
		g.p("\t\t\t\tplace.Write(%s, eb)", placeExpr)
		return
	}
	g.p("\t\t\t\tif err := %s.Archive(%s, %s); err != nil { return r, ctx.Fail(err) }", nativeVar, placeExpr, resolverExpr)
}

// primSet emits the Set call storing srcExpr into the archived primitive
// wrapper varName; only bool's setter takes no byte order.
func (g *gen) primSet(indent, varName, typeName, srcExpr, orderExpr string) {
	if typeName == "bool" {
		g.p("%s%s.Set(%s)", indent, varName, srcExpr)
		return
	}
	g.p("%s%s.Set(%s, %s)", indent, varName, orderExpr, srcExpr)
}

// primGetExpr returns the Get call reading a primitive back out of its
// archived wrapper.
func primGetExpr(typeName, recvExpr, orderExpr string) string {
	if typeName == "bool" {
		return recvExpr + ".Get()"
	}
	return fmt.Sprintf("%s.Get(%s)", recvExpr, orderExpr)
}

func (g *gen) archiveField(typeName string, f FieldDef, nativeExpr, resolverExpr string) {
	rw := g.rel()
	name := lowerFirst(f.Name)
	switch {
	case f.Vec:
		relType := fmt.Sprintf("relptr.Rel%s[%s]", rw.typeSuffix, archivedTypeName(f.Type))
		ptrField := g.project(typeName, name, ".ptr", relType)
		g.p("\tif %s.n == 0 {", resolverExpr)
		g.p("\t\tplace.Write(%s, %s{})", ptrField, relType)
		g.p("\t} else if err := relptr.PlaceRel%s(%s, r.order, %s.base); err != nil {", rw.typeSuffix, ptrField, resolverExpr)
		g.p("\t\treturn err")
		g.p("\t}")
		lenField := g.project(typeName, name, ".len", "prim.ArchivedU32")
		g.p("\tvar %sLen prim.ArchivedU32", name)
		g.p("\t%sLen.Set(r.order, uint32(%s.n))", name, resolverExpr)
		g.p("\tplace.Write(%s, %sLen)", lenField, name)
	case f.Shared != "":
		relType := fmt.Sprintf("relptr.Rel%s[%s]", rw.typeSuffix, archivedTypeName(f.Type))
		tagField := g.project(typeName, name, ".tag", "sharetag.Tag")
		g.p("\tplace.Write(%s, %s.tag)", tagField, resolverExpr)
		ptrField := g.project(typeName, name, ".ptr", relType)
		g.p("\tif err := relptr.PlaceRel%s(%s, r.order, %s.pos); err != nil {", rw.typeSuffix, ptrField, resolverExpr)
		g.p("\t\treturn err")
		g.p("\t}")
	case f.Box:
		relType := fmt.Sprintf("relptr.Rel%s[%s]", rw.typeSuffix, archivedTypeName(f.Type))
		ptrField := g.project(typeName, name, "", relType)
		g.p("\tif %s.null {", resolverExpr)
		g.p("\t\tplace.Write(%s, %s{})", ptrField, relType)
		g.p("\t} else if err := relptr.PlaceRel%s(%s, r.order, %s.pos); err != nil {", rw.typeSuffix, ptrField, resolverExpr)
		g.p("\t\treturn err")
		g.p("\t}")
	case f.Type == "string":
		relType := fmt.Sprintf("relptr.Rel%s[byte]", rw.typeSuffix)
		ptrField := g.project(typeName, name, ".ptr", relType)
		g.p("\tif %s.n == 0 {", resolverExpr)
		g.p("\t\tplace.Write(%s, %s{})", ptrField, relType)
		g.p("\t} else if err := relptr.PlaceRel%s(%s, r.order, %s.pos); err != nil {", rw.typeSuffix, ptrField, resolverExpr)
		g.p("\t\treturn err")
		g.p("\t}")
		lenField := g.project(typeName, name, ".len", "prim.ArchivedU32")
		g.p("\tvar %sLen prim.ArchivedU32", name)
		g.p("\t%sLen.Set(r.order, uint32(%s.n))", name, resolverExpr)
		g.p("\tplace.Write(%s, %sLen)", lenField, name)
	default:
		if _, ok := primitives[f.Type]; ok {
			at := archivedTypeName(f.Type)
			field := g.project(typeName, name, "", at)
			g.p("\tvar %sA %s", name, at)
			g.primSet("\t", name+"A", f.Type, nativeExpr, "r.order")
			g.p("\tplace.Write(%s, %sA)", field, name)
			return
		}
		subField := g.project(typeName, name, "", archivedTypeName(f.Type))
		g.p("\tif err := %s.Archive(%s, %s); err != nil {", nativeExpr, subField, resolverExpr)
		g.p("\t\treturn err")
		g.p("\t}")
	}
}

// primStoreRaw emits a raw prim.Store call into a staging byte buffer;
// used by enum payload staging, which assembles the live variant's bytes
// before its final place exists.
func (g *gen) primStoreRaw(dstFirstByte, typeName, srcExpr, orderExpr string) {
	p := primitives[typeName]
	switch {
	case typeName == "bool":
		g.p("\t\tprim.StoreBool(&%s, %s)", dstFirstByte, srcExpr)
	case typeName == "char":
		g.p("\t\tprim.StoreChar(&%s, %s, %s)", dstFirstByte, orderExpr, srcExpr)
	case p.goType[0] == 'f':
		g.p("\t\tprim.StoreF(&%s, %s, %s)", dstFirstByte, orderExpr, srcExpr)
	case p.goType[0] == 'i':
		g.p("\t\tprim.StoreI(&%s, %s, %s)", dstFirstByte, orderExpr, srcExpr)
	default:
		g.p("\t\tprim.StoreU(&%s, %s, %s)", dstFirstByte, orderExpr, srcExpr)
	}
}

func (g *gen) validateField(typeName string, f FieldDef) {
	rw := g.rel()
	name := lowerFirst(f.Name)
	switch {
	case f.Vec:
		elemType := archivedTypeName(f.Type)
		relType := fmt.Sprintf("relptr.Rel%s[%s]", rw.typeSuffix, elemType)
		ptrPos := g.fieldPos(typeName, name, ".ptr", relType)
		g.p("\t{")
		g.p("\t\tn := int(a.%s.len.Get(v.Order()))", name)
		g.p("\t\ttarget, isNull := v.RelTarget(%s, %d)", ptrPos, rw.byteSize)
		g.p("\t\tif isNull {")
		g.p("\t\t\tif n != 0 { return zerr.At(zerr.OutOfBounds, %s) }", ptrPos)
		g.p("\t\t} else {")
		g.p("\t\t\tif err := v.Length(target, n, sizeOf[%s]()); err != nil { return err }", elemType)
		g.p("\t\t\tfor i := 0; i < n; i++ {")
		g.p("\t\t\t\tif err := validate.Descend[%s](v, target+i*sizeOf[%s]()); err != nil { return err }", elemType, elemType)
		g.p("\t\t\t}")
		g.p("\t\t}")
		g.p("\t}")
	case f.Shared != "":
		elemType := archivedTypeName(f.Type)
		relType := fmt.Sprintf("relptr.Rel%s[%s]", rw.typeSuffix, elemType)
		tagPos := g.fieldPos(typeName, name, ".tag", "sharetag.Tag")
		ptrPos := g.fieldPos(typeName, name, ".ptr", relType)
		g.p("\tif a.%s.tag != sharetag.Of[%s]() {", name, elemType)
		g.p("\t\treturn zerr.At(zerr.SharedTypeMismatch, %s)", tagPos)
		g.p("\t}")
		g.p("\t{")
		g.p("\t\ttarget, isNull := v.RelTarget(%s, %d)", ptrPos, rw.byteSize)
		g.p("\t\tif isNull { return zerr.At(zerr.OutOfBounds, %s) }", ptrPos)
		g.p("\t\tif err := validate.Descend[%s](v, target); err != nil { return err }", elemType)
		g.p("\t}")
	case f.Box:
		elemType := archivedTypeName(f.Type)
		relType := fmt.Sprintf("relptr.Rel%s[%s]", rw.typeSuffix, elemType)
		ptrPos := g.fieldPos(typeName, name, "", relType)
		g.p("\t{")
		g.p("\t\ttarget, isNull := v.RelTarget(%s, %d)", ptrPos, rw.byteSize)
		if f.Optional {
			g.p("\t\tif !isNull {")
			g.p("\t\t\tif err := validate.Descend[%s](v, target); err != nil { return err }", elemType)
			g.p("\t\t}")
		} else {
			g.p("\t\tif isNull { return zerr.At(zerr.OutOfBounds, %s) }", ptrPos)
			g.p("\t\tif err := validate.Descend[%s](v, target); err != nil { return err }", elemType)
		}
		g.p("\t}")
	case f.Type == "string":
		relType := fmt.Sprintf("relptr.Rel%s[byte]", rw.typeSuffix)
		ptrPos := g.fieldPos(typeName, name, ".ptr", relType)
		g.p("\t{")
		g.p("\t\tn := int(a.%s.len.Get(v.Order()))", name)
		g.p("\t\ttarget, isNull := v.RelTarget(%s, %d)", ptrPos, rw.byteSize)
		g.p("\t\tif isNull {")
		g.p("\t\t\tif n != 0 { return zerr.At(zerr.OutOfBounds, %s) }", ptrPos)
		g.p("\t\t} else if err := v.UTF8(target, n); err != nil { return err }")
		g.p("\t}")
	default:
		switch f.Type {
		case "bool":
			g.p("\tif err := v.Bool(%s); err != nil { return err }", g.fieldPos(typeName, name, "", "prim.ArchivedBool"))
		case "char":
			g.p("\tif err := v.Char(%s, uint32(a.%s.Get(v.Order()))); err != nil { return err }",
				g.fieldPos(typeName, name, "", "prim.ArchivedChar"), name)
		default:
			if _, ok := primitives[f.Type]; ok {
				return // any bit pattern is valid (spec §4.1).
			}
			g.p("\tif err := a.%s.ValidateBytes(v, %s); err != nil { return err }",
				name, g.fieldPos(typeName, name, "", archivedTypeName(f.Type)))
		}
	}
}

// genEnum emits a sum type as a single-byte tag, explicit padding up to
// the widest variant's alignment, and the payload bytes, matching spec
// §4.6 "Sum (enum)": "a tagged union with a single-byte discriminant...
// followed by variant payload." A zero-length array of the payload's
// alignment class leads the struct so Go gives the whole union that
// alignment, which keeps every payload field at a naturally-aligned
// buffer position (spec §8 property 8).
//
// Variant payloads are restricted to inline (non-indirected) fields;
// Validate rejects box/vec/shared fields inside a variant, since an
// owning pointer or shared handle inside a union payload would need its
// own per-variant resolver slot, which this generator doesn't build.
func (g *gen) genEnum(t *TypeDef) error {
	g.p("type %sKind uint8", t.Name)
	g.p("")
	g.p("const (")
	for i, v := range t.Variants {
		if i == 0 {
			g.p("\t%s%s %sKind = iota", t.Name, v.Name, t.Name)
		} else {
			g.p("\t%s%s", t.Name, v.Name)
		}
	}
	g.p(")")
	g.p("")

	g.p("type %s struct {", t.Name)
	g.p("\tKind %sKind", t.Name)
	for _, v := range t.Variants {
		g.p("\t%s *%s%sData", v.Name, t.Name, v.Name)
	}
	g.p("}")
	g.p("")

	// Mirror Go's own layout rule for each variant struct: fields in
	// order, each at the next offset rounded up to its alignment, the
	// total rounded up to the struct's alignment. The staging offsets in
	// Serialize below walk the same way, so the bytes land where the
	// As{Variant} reinterpretation expects them.
	maxSize, maxAlign := 0, 1
	for _, v := range t.Variants {
		g.p("type %s%sData struct {", t.Name, v.Name)
		for _, f := range v.Fields {
			g.p("\t%s %s", f.Name, nativeFieldType(f))
		}
		g.p("}")
		g.p("")

		g.p("type archived%s%s struct {", t.Name, v.Name)
		size, align := 0, 1
		for _, f := range v.Fields {
			g.p("\t%s %s", lowerFirst(f.Name), archivedFieldType(f, g.rel()))
			p := primitives[f.Type]
			size = roundUpInt(size, p.align) + p.size
			align = max(align, p.align)
		}
		g.p("}")
		g.p("")
		maxSize = max(maxSize, roundUpInt(size, align))
		maxAlign = max(maxAlign, align)
	}
	payloadLen := max(roundUpInt(maxSize, maxAlign), 1)

	g.p("type Archived%s struct {", t.Name)
	if maxAlign > 1 {
		g.p("\t_       [0]%s", alignerType(maxAlign))
		g.p("\ttag     byte")
		g.p("\t_       [%d]byte", maxAlign-1)
	} else {
		g.p("\ttag     byte")
	}
	g.p("\tpayload [%d]byte", payloadLen)
	g.p("}")
	g.p("")

	resolverName := lowerFirst(t.Name) + "Resolver"
	g.p("type %s struct {", resolverName)
	g.p("\torder prim.Order")
	g.p("\tkind  %sKind", t.Name)
	g.p("\tbytes [%d]byte", payloadLen)
	g.p("}")
	g.p("")

	g.p("func (v %s) Serialize(ctx *zeroarc.Context) (%s, error) {", t.Name, resolverName)
	g.p("\tr := %s{order: ctx.Order, kind: v.Kind}", resolverName)
	g.p("\tswitch v.Kind {")
	for _, v := range t.Variants {
		g.p("\tcase %s%s:", t.Name, v.Name)
		g.p("\t\tif v.%s == nil { return r, ctx.Fail(zerr.New(zerr.User)) }", v.Name)
		offset := 0
		for _, f := range v.Fields {
			if _, ok := primitives[f.Type]; ok {
				offset = roundUpInt(offset, primitives[f.Type].align)
				g.primStoreRaw(fmt.Sprintf("r.bytes[%d]", offset), f.Type, "v."+v.Name+"."+f.Name, "ctx.Order")
				offset += primitives[f.Type].size
				continue
			}
			return resolverEnumUnsupported(t.Name, v.Name, f.Name)
		}
	}
	g.p("\t}")
	g.p("\treturn r, nil")
	g.p("}")
	g.p("")

	g.p("func (v %s) Archive(p place.Place[Archived%s], r %s) error {", t.Name, t.Name, resolverName)
	tagField := g.project(t.Name, "tag", "", "byte")
	g.p("\tplace.Write(%s, byte(r.kind))", tagField)
	payloadField := g.project(t.Name, "payload", "", fmt.Sprintf("[%d]byte", payloadLen))
	g.p("\tplace.Write(%s, r.bytes)", payloadField)
	g.p("\treturn nil")
	g.p("}")
	g.p("")

	g.p("func (a Archived%s) ValidateBytes(v *validate.Validator, pos int) error {", t.Name)
	g.p("\treturn v.Discriminant(pos, uint32(a.tag), %s)", discriminantList(len(t.Variants)))
	g.p("}")
	g.p("")

	g.p("func (%s) Deserialize(a *Archived%s, d *zeroarc.Deserializer) (%s, error) {", t.Name, t.Name, t.Name)
	g.p("\tout := %s{Kind: %sKind(a.tag)}", t.Name, t.Name)
	g.p("\tswitch out.Kind {")
	for _, v := range t.Variants {
		g.p("\tcase %s%s:", t.Name, v.Name)
		if len(v.Fields) == 0 {
			g.p("\t\tout.%s = &%s%sData{}", v.Name, t.Name, v.Name)
			continue
		}
		g.p("\t\tarm, _ := a.As%s()", v.Name)
		g.p("\t\tout.%s = &%s%sData{", v.Name, t.Name, v.Name)
		for _, f := range v.Fields {
			g.p("\t\t\t%s: %s,", f.Name, primGetExpr(f.Type, "arm."+lowerFirst(f.Name), "d.Order"))
		}
		g.p("\t\t}")
	}
	g.p("\t}")
	g.p("\treturn out, nil")
	g.p("}")
	g.p("")

	// Is{Variant} reports the live arm. As{Variant} reinterprets the shared
	// payload bytes as that variant's own archived struct; every variant's
	// archived struct is a prefix of the same payload array, so this is the
	// same reinterpret-in-place [container.ArchivedOption.Get] and friends
	// do through a relative pointer, just without one here since variant
	// payloads are inline rather than indirected.
	for i, v := range t.Variants {
		g.p("func (a *Archived%s) Is%s() bool { return a.tag == %d }", t.Name, v.Name, i)
		g.p("")
		g.p("// As%s reinterprets the payload bytes as the %s variant, reporting", v.Name, v.Name)
		g.p("// false if a different variant is live.")
		g.p("func (a *Archived%s) As%s() (*archived%s%s, bool) {", t.Name, v.Name, t.Name, v.Name)
		g.p("\tif a.tag != %d { return nil, false }", i)
		g.p("\treturn (*archived%s%s)(unsafe.Pointer(&a.payload)), true", t.Name, v.Name)
		g.p("}")
		g.p("")
		for _, f := range v.Fields {
			g.p("func (d *archived%s%s) %s(order prim.Order) %s {", t.Name, v.Name, f.Name, primitives[f.Type].goType)
			g.p("\treturn %s", primGetExpr(f.Type, "d."+lowerFirst(f.Name), "order"))
			g.p("}")
			g.p("")
		}
	}
	return nil
}

func roundUpInt(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// alignerType names an integer type with the given alignment, used as a
// zero-length leading array to force a union's alignment class.
func alignerType(align int) string {
	switch align {
	case 2:
		return "uint16"
	case 4:
		return "uint32"
	default:
		return "uint64"
	}
}

func resolverEnumUnsupported(typeName, variant, field string) error {
	return fmt.Errorf("schema: %s.%s.%s: only primitive fields are supported in enum variant payloads", typeName, variant, field)
}

func discriminantList(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%d", i)
	}
	return strings.Join(parts, ", ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
