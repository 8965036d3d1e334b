// Package proposalpdf generates multi-page sales-proposal and quotation PDF
// documents: a templated cover and info page, followed by dynamically
// composed content pages (free text, image galleries, itemized pricing,
// optional services, terms), merged into one final artifact.
//
// The caller supplies a single ProposalDocument value with any raster bytes
// already fetched; the engine is pure CPU-bound transformation and touches
// only the local disk for its template cache and transient files.
//
//	gen, err := proposalpdf.NewGenerator(
//		proposalpdf.WithAssetDir("assets"),
//		proposalpdf.WithWorkDir("/var/tmp/proposals"),
//	)
//	if err != nil { ... }
//	var buf bytes.Buffer
//	if err := gen.Generate(doc, &buf); err != nil { ... }
//
// Sub-packages hold the engine's layers: textfit (measurement-driven
// wrapping, justification and auto-fit sizing), assetcache (the
// content-addressed raster cache and upload optimizer), blocks
// (self-measuring flowables), flow (page templates and pagination), and
// pageops (merge, watermark, page numbers).
package proposalpdf
