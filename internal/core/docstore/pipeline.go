package docstore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markdave123-py/covidsearch/internal/core"
)

// Top-N caps per facet dimension.
const (
	entitiesFacetLimit = 20
	categoryFacetLimit = 20
	typeFacetLimit     = 10
	authorFacetLimit   = 20
)

var (
	searchPaths = bson.A{"rel_title", "rel_abs"}

	// dimension name -> document field
	facetFields = map[string]string{
		"entities":    "entities.label",
		"author_name": "author_name",
		"author_inst": "author_inst",
		"category":    "category",
		"type":        "type",
		"rel_date":    "rel_date",
	}
)

// searchStage is a fuzzy (maxEdits 1) text match over title and abstract with highlights.
func searchStage(index, query string) bson.D {
	return bson.D{{Key: "$search", Value: bson.D{
		{Key: "index", Value: index},
		{Key: "text", Value: bson.D{
			{Key: "query", Value: query},
			{Key: "path", Value: searchPaths},
			{Key: "fuzzy", Value: bson.D{{Key: "maxEdits", Value: 1}}},
		}},
		{Key: "highlight", Value: bson.D{{Key: "path", Value: searchPaths}}},
	}}}
}

// matchStage ANDs one $in clause per dimension. ok is false when there is nothing to filter.
func matchStage(facets map[string][]string) (stage bson.D, ok bool) {
	var clauses bson.A
	for _, dim := range core.FacetDimensions {
		values := facets[dim]
		if len(values) == 0 {
			continue
		}
		clauses = append(clauses, bson.D{{Key: facetFields[dim], Value: bson.D{{Key: "$in", Value: values}}}})
	}
	if len(clauses) == 0 {
		return nil, false
	}
	return bson.D{{Key: "$match", Value: bson.D{{Key: "$and", Value: clauses}}}}, true
}

func projectStage(withHighlights bool) bson.D {
	fields := bson.D{
		{Key: "rel_title", Value: 1},
		{Key: "rel_abs", Value: 1},
		{Key: "author_name", Value: 1},
		{Key: "author_inst", Value: 1},
		{Key: "category", Value: 1},
		{Key: "type", Value: 1},
		{Key: "rel_date", Value: 1},
		{Key: "entities", Value: 1},
		{Key: "rel_doi", Value: 1},
	}
	if withHighlights {
		fields = append(fields, bson.E{Key: "highlights", Value: bson.D{{Key: "$meta", Value: "searchHighlights"}}})
	}
	return bson.D{{Key: "$project", Value: fields}}
}

// searchPipelines returns the paged pipeline and the count pipeline. Both share
// the same filter prefix so the total reflects exactly the paged criteria.
func searchPipelines(index, query string, facets map[string][]string, page, limit int) (paged, count mongo.Pipeline) {
	var filter mongo.Pipeline
	if query != "" {
		filter = append(filter, searchStage(index, query))
	}
	if m, ok := matchStage(facets); ok {
		filter = append(filter, m)
	}

	count = append(append(mongo.Pipeline{}, filter...), bson.D{{Key: "$count", Value: "total"}})

	paged = append(append(mongo.Pipeline{}, filter...),
		bson.D{{Key: "$skip", Value: int64(page-1) * int64(limit)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
		projectStage(query != ""),
	)
	return paged, count
}

func topValues(groupKey string, limit int) bson.A {
	return bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: groupKey},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}
}

func unwound(field string) bson.A {
	return bson.A{bson.D{{Key: "$unwind", Value: "$" + field}}}
}

// facetPipeline counts values of every dimension over the whole collection.
// Entities are unwound first since a document carries many. Authors may be
// stored as a string or an array; unwinding handles both and keeps every
// group key a plain string.
func facetPipeline() mongo.Pipeline {
	entities := append(unwound("entities"), topValues("$entities.label", entitiesFacetLimit)...)
	authors := append(unwound("author_name"), topValues("$author_name", authorFacetLimit)...)
	return mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "entities", Value: entities},
			{Key: "category", Value: topValues("$category", categoryFacetLimit)},
			{Key: "type", Value: topValues("$type", typeFacetLimit)},
			{Key: "author_name", Value: authors},
		}}},
	}
}

// lookupFilter matches by primary key when id is an ObjectID hex string and by
// DOI otherwise.
func lookupFilter(id string) bson.D {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.D{{Key: "_id", Value: oid}}
	}
	return bson.D{{Key: "rel_doi", Value: id}}
}

// pageCount is ceil(total/limit).
func pageCount(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
