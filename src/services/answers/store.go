package answers

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

// Store holds answer documents. Ids are ObjectID hex strings.
type Store interface {
	Create(ctx context.Context, doc *models.SubmissionDocument) error
	FindByID(ctx context.Context, id string) (*models.SubmissionDocument, error)
	Update(ctx context.Context, doc *models.SubmissionDocument) error
	Delete(ctx context.Context, id string) error
	ListIDs(ctx context.Context, createdBefore time.Time) ([]string, error)
}

type MongoStore struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewMongoStore(coll *mongo.Collection, baseLog *logger.Logger) *MongoStore {
	return &MongoStore{coll: coll, log: baseLog.With("repo", "SubmissionStore")}
}

func (s *MongoStore) Create(ctx context.Context, doc *models.SubmissionDocument) error {
	now := time.Now()
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return apperr.Internal(err)
	}
	// sync inserted id (เผื่อไดรเวอร์คืนค่า id ใหม่)
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	s.log.Debug("submission inserted", "document_id", doc.ID.Hex(), "answers", len(doc.Answers))
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.SubmissionDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("submission %s not found", id)
	}
	var doc models.SubmissionDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("submission %s not found", id)
		}
		return nil, apperr.Internal(err)
	}
	return &doc, nil
}

// Update writes answers and totalPoint back; the document must still exist.
func (s *MongoStore) Update(ctx context.Context, doc *models.SubmissionDocument) error {
	doc.UpdatedAt = time.Now()
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$set": bson.M{
			"answers":    doc.Answers,
			"totalPoint": doc.TotalPoint,
			"updatedAt":  doc.UpdatedAt,
		}},
	)
	if err != nil {
		return apperr.Internal(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("submission %s not found", doc.ID.Hex())
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("submission %s not found", id)
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("submission %s not found", id)
	}
	return nil
}

// ListIDs returns ids of documents created before createdBefore.
func (s *MongoStore) ListIDs(ctx context.Context, createdBefore time.Time) ([]string, error) {
	filter := bson.M{"createdAt": bson.M{"$lt": createdBefore}}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, apperr.Internal(err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID.Hex())
	}
	return ids, nil
}
