package answers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/pratamabintang/khs-assesment-sub001/src/apperr"
	"github.com/pratamabintang/khs-assesment-sub001/src/logger"
	"github.com/pratamabintang/khs-assesment-sub001/src/models"
)

const ns = "khs.submissions"

func TestMongoStoreCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id and timestamps", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		doc := &models.SubmissionDocument{SurveyID: "s1", EmployeeID: "e1", TotalPoint: 3}
		require.NoError(mt, store.Create(context.Background(), doc))
		assert.False(mt, doc.ID.IsZero())
		assert.False(mt, doc.CreatedAt.IsZero())
		assert.Equal(mt, doc.CreatedAt, doc.UpdatedAt)
	})

	mt.Run("write error is internal", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := store.Create(context.Background(), &models.SubmissionDocument{SurveyID: "s1"})
		assert.True(mt, apperr.Is(err, apperr.KindInternal))
	})
}

func TestMongoStoreFindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		_, err := store.FindByID(context.Background(), "not-an-object-id")
		assert.True(mt, apperr.Is(err, apperr.KindNotFound))
	})

	mt.Run("found", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "surveyId", Value: "s1"},
			{Key: "employeeId", Value: "e1"},
			{Key: "totalPoint", Value: 7.5},
		}))

		doc, err := store.FindByID(context.Background(), oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, oid, doc.ID)
		assert.Equal(mt, "s1", doc.SurveyID)
		assert.Equal(mt, 7.5, doc.TotalPoint)
	})

	mt.Run("missing document", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, apperr.Is(err, apperr.KindNotFound))
	})

	mt.Run("server error is internal", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Name: "InternalError", Message: "boom"}))

		_, err := store.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, apperr.Is(err, apperr.KindInternal))
	})
}

func TestMongoStoreUpdate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		doc := &models.SubmissionDocument{ID: primitive.NewObjectID(), TotalPoint: 9}
		require.NoError(mt, store.Update(context.Background(), doc))
		assert.False(mt, doc.UpdatedAt.IsZero())
	})

	mt.Run("vanished document is not found", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := store.Update(context.Background(), &models.SubmissionDocument{ID: primitive.NewObjectID()})
		assert.True(mt, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestMongoStoreDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, store.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("already gone is not found", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := store.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, apperr.Is(err, apperr.KindNotFound))
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		err := store.Delete(context.Background(), "xyz")
		assert.True(mt, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestMongoStoreListIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns hex ids", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll, logger.Nop())
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: a}},
			bson.D{{Key: "_id", Value: b}},
		))

		ids, err := store.ListIDs(context.Background(), time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, []string{a.Hex(), b.Hex()}, ids)
	})
}
