package introspection

import (
	schema "github.com/hanpama/mockgraph/internal/schema"
)

// extend returns a copy of original with the introspection types added and
// __schema / __type appended to a copy of the query root. original is not
// modified.
func extend(original *schema.Schema) *schema.Schema {
	extended := &schema.Schema{
		QueryType:        original.QueryType,
		MutationType:     original.MutationType,
		SubscriptionType: original.SubscriptionType,
		Types:            make(map[string]*schema.Type, len(original.Types)+8),
		Directives:       original.Directives,
		Description:      original.Description,
	}
	for name, t := range original.Types {
		extended.Types[name] = t
	}
	for _, t := range schema.IntrospectionTypes() {
		extended.Types[t.Name] = t
	}

	query := extended.GetQueryType()
	if query == nil {
		return extended
	}
	root := *query
	root.Fields = append(append([]*schema.Field(nil), query.Fields...), metaFields()...)
	extended.Types[root.Name] = &root
	return extended
}

func metaFields() []*schema.Field {
	typeField := schema.NewField("__type", "Request the type information of a single type.", schema.NamedType("__Type"))
	typeField.AddArgument(schema.NewInputValue("name", "", schema.NonNullType(schema.NamedType("String"))))
	return []*schema.Field{
		schema.NewField("__schema", "Access the current type schema of this server.", schema.NonNullType(schema.NamedType("__Schema"))),
		typeField,
	}
}
