// Package catalog holds the static product list and the read-only queries the
// storefront runs over it.
//
// The catalog is defined in CUE. schema.cue declares #Catalog (field types,
// non-empty size and color lists, review ratings 1-5, RFC 3339 release
// instants); catalog.cue carries the shipped products. Both are embedded, and
// alternate catalog files are checked against the same schema before use.
//
// Products are immutable once loaded. Prices are exact decimals, so line
// totals such as 34.99 x 3 come out as 104.97 and not a float approximation.
//
// The cached AverageRating and RatingCount are supplied with the catalog and
// are never recomputed from Reviews.
package catalog
