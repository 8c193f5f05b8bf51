// Package mongo provides a MongoDB-backed snippet retriever using text-index
// search. It is an alternative to the in-memory vector index for deployments
// that already keep the knowledge base in Mongo; ranking quality is lower
// (lexical, no diversity re-ranking beyond the FetchK cut).
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/Rrens/hospital-chat/internal/retrieval"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const snippetCollection = "snippets"

type snippetDoc struct {
	Text   string  `bson:"text"`
	Source string  `bson:"source,omitempty"`
	Score  float64 `bson:"score,omitempty"`
}

// Retriever implements retrieval.Retriever and retrieval.Indexer over a
// MongoDB collection with a text index on the snippet body.
type Retriever struct {
	client   *mongo.Client
	database string
}

// NewRetriever connects to MongoDB and ensures the text index exists
func NewRetriever(ctx context.Context, uri, database string) (*Retriever, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &Retriever{client: client, database: database}

	_, err = r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "text", Value: "text"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create text index: %w", err)
	}

	return r, nil
}

func (r *Retriever) collection() *mongo.Collection {
	return r.client.Database(r.database).Collection(snippetCollection)
}

// Close disconnects the underlying client
func (r *Retriever) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// Index replaces the snippet collection with the given documents
func (r *Retriever) Index(ctx context.Context, docs []domain.Document) error {
	coll := r.collection()

	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear snippet collection: %w", err)
	}

	if len(docs) == 0 {
		return nil
	}

	models := make([]interface{}, len(docs))
	for i, d := range docs {
		models[i] = snippetDoc{Text: d.Text, Source: d.Source}
	}
	if _, err := coll.InsertMany(ctx, models); err != nil {
		return fmt.Errorf("failed to insert snippets: %w", err)
	}
	return nil
}

// Count reports the number of stored snippets; 0 on error
func (r *Retriever) Count() int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := r.collection().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0
	}
	return int(n)
}

// Search runs a $text query ordered by text score. FetchK widens the scan,
// K bounds the returned snippets.
func (r *Retriever) Search(ctx context.Context, query string, params retrieval.Params) ([]domain.Snippet, error) {
	k := params.K
	if k <= 0 {
		k = 10
	}

	filter := bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: query}}}}
	opts := options.Find().
		SetProjection(bson.D{
			{Key: "text", Value: 1},
			{Key: "source", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}},
		}).
		SetSort(bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}).
		SetLimit(int64(k))

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb text search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var snippets []domain.Snippet
	for cursor.Next(ctx) {
		var doc snippetDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode snippet: %w", err)
		}
		snippets = append(snippets, domain.Snippet{Text: doc.Text, Source: doc.Source, SourceQuery: query})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("snippet cursor error: %w", err)
	}

	return snippets, nil
}
