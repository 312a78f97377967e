// Package restodex embeds the restaurant lookup service in a Go program,
// backed by MongoDB or Redis (JSON + search modules).
//
//	client, _ := restodex.New(ctx, restodex.WithMongo("mongodb://localhost:27017", "zom", "res"))
//	defer client.Close()
//
//	page := client.Search(ctx, "pizza", 1)
//	for _, r := range page.Items {
//	    fmt.Println(r.ID, r.Name, r.Rating)
//	}
//
//	r, ok := client.Restaurant(ctx, "16774318")
//
// Search and Restaurant never return store errors: an unreachable store
// yields an empty page or "not found". Use Ping or Health to tell the two apart.
package restodex
