// Package docmap maps schema-declared document models onto a remote
// document search engine.
//
// A model is declared once as a Definition (an index-name template plus a
// field schema) and bound to a store through Client.Bind, which returns the
// model's Manager:
//
//	client, _ := docmap.New(ctx, docmap.WithRedis("localhost:6379", ""))
//	products, _ := client.Bind(docmap.Definition{
//		IndexTemplate: "products/{store_id}",
//		Schema: docmap.Schema{
//			"name":   {Type: docmap.FieldString, Index: docmap.IndexTerms, Required: true},
//			"active": {Type: docmap.FieldBoolean, Default: true},
//		},
//	})
//
//	widget, _ := products.Create(ctx, docmap.Values{"store_id": "s1", "name": "Widget"})
//
// The Manager translates Create, Get and Filter into store calls, resolving
// the concrete index from the template and provisioning the index schema
// transparently when the store reports a precondition failure. Instances
// returned by the Manager intercept field access against the schema and
// carry Save and Delete back through it.
package docmap
