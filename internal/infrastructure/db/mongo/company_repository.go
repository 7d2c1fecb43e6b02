package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

const collectionCompanies = "companies"

type CompanyRepository struct {
	col *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{col: db.Collection(collectionCompanies)}
}

type companyDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Location  string             `bson:"location"`
	Bankrupt  bool               `bson:"bankrupt"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d companyDoc) toDomain() *domain.Company {
	return &domain.Company{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Location:  d.Location,
		Bankrupt:  d.Bankrupt,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "bankrupt", Value: 1}}},
	})
	return err
}

func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, companyDoc{
		Name:      c.Name,
		Location:  c.Location,
		Bankrupt:  c.Bankrupt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert company: %w", err)
	}

	created := *c
	created.ID = insertedID(res)
	return &created, nil
}

func (r *CompanyRepository) Get(ctx context.Context, id string) (*domain.Company, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc companyDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns companies sorted by name. Active selects solvent (true) or
// bankrupt (false) companies.
func (r *CompanyRepository) List(ctx context.Context, f domain.OrgFilter) ([]domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.NameContains != "" {
		filter["name"] = containsFold(f.NameContains)
	}
	if f.LocationContains != "" {
		filter["location"] = containsFold(f.LocationContains)
	}
	if f.Active != nil {
		filter["bankrupt"] = !*f.Active
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer cur.Close(ctx)

	var docs []companyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode companies: %w", err)
	}

	out := make([]domain.Company, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

func (r *CompanyRepository) Update(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	oid, err := parseID(c.ID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":       c.Name,
		"location":   c.Location,
		"bankrupt":   c.Bankrupt,
		"updated_at": c.UpdatedAt,
	}})
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}

	updated := *c
	return &updated, nil
}

// SoftDelete marks the company bankrupt.
func (r *CompanyRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, r.col, id, "bankrupt", true, at)
}

func softDelete(ctx context.Context, col *mongo.Collection, id, field string, value bool, at time.Time) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: value, "updated_at": at}})
	if err != nil {
		return fmt.Errorf("soft delete %s: %w", col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) Stats(ctx context.Context) (domain.CompanyStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return domain.CompanyStats{}, fmt.Errorf("count companies: %w", err)
	}
	bankrupt, err := r.col.CountDocuments(ctx, bson.M{"bankrupt": true})
	if err != nil {
		return domain.CompanyStats{}, fmt.Errorf("count bankrupt companies: %w", err)
	}
	return domain.CompanyStats{Total: total, Bankrupt: bankrupt, Solvent: total - bankrupt}, nil
}
