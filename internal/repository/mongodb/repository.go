package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

const reportsCollection = "allocation_reports"

// ErrNoReport is returned when no report was published for a month.
var ErrNoReport = errors.New("no allocation report published")

// Repository defines the interface for report storage.
type Repository interface {
	SaveAllocationReport(ctx context.Context, report models.AllocationReport) error
	LatestAllocationReport(ctx context.Context, target models.Month) (models.AllocationReport, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	logger   *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: reportsCollection,
		logger:   logger,
	}

	if _, err := repo.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "target_month", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return nil, fmt.Errorf("failed to create report index: %w", err)
	}

	logger.Info("mongodb connected", zap.String("database", dbName), zap.String("collection", reportsCollection))
	return repo, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveAllocationReport saves a published allocation to the database.
func (r *MongoDBRepository) SaveAllocationReport(ctx context.Context, report models.AllocationReport) error {
	if _, err := r.collection().InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert allocation report: %w", err)
	}
	r.logger.Debug("allocation report saved",
		zap.String("target_month", report.TargetMonth.String()),
		zap.String("trigger", report.Trigger),
	)
	return nil
}

// LatestAllocationReport returns the most recent report for target.
func (r *MongoDBRepository) LatestAllocationReport(ctx context.Context, target models.Month) (models.AllocationReport, error) {
	var report models.AllocationReport
	err := r.collection().FindOne(ctx, targetFilter(target), latestFirst()).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AllocationReport{}, fmt.Errorf("%w for %s", ErrNoReport, target)
	}
	if err != nil {
		return models.AllocationReport{}, fmt.Errorf("failed to load allocation report: %w", err)
	}
	return report, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func targetFilter(target models.Month) bson.D {
	return bson.D{{Key: "target_month", Value: target.String()}}
}

func latestFirst() *options.FindOneOptions {
	return options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
}
