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

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
)

const collectionInvoices = "invoices"

type InvoiceRepository struct {
	col *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{col: db.Collection(collectionInvoices)}
}

type mongoInvoice struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	InvoiceNumber  string               `bson:"invoice_number"`
	ClientName     string               `bson:"client_name"`
	ClientNumber   string               `bson:"client_number"`
	ClientAddress  string               `bson:"client_address"`
	ClientMF       string               `bson:"client_mf"`
	DeliveryPerson string               `bson:"delivery_person"`
	Date           time.Time            `bson:"date"`
	Items          []domain.InvoiceItem `bson:"items"`
	TotalHT        float64              `bson:"total_ht"`
	TotalRemise    float64              `bson:"total_remise"`
	TotalTTC       float64              `bson:"total_ttc"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

func fromDomainInvoice(inv *domain.Invoice) mongoInvoice {
	return mongoInvoice{
		InvoiceNumber:  inv.InvoiceNumber,
		ClientName:     inv.ClientName,
		ClientNumber:   inv.ClientNumber,
		ClientAddress:  inv.ClientAddress,
		ClientMF:       inv.ClientMF,
		DeliveryPerson: inv.DeliveryPerson,
		Date:           inv.Date,
		Items:          inv.Items,
		TotalHT:        inv.TotalHT,
		TotalRemise:    inv.TotalRemise,
		TotalTTC:       inv.TotalTTC,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

func (mi *mongoInvoice) toDomain() *domain.Invoice {
	return &domain.Invoice{
		ID:             mi.ID.Hex(),
		InvoiceNumber:  mi.InvoiceNumber,
		ClientName:     mi.ClientName,
		ClientNumber:   mi.ClientNumber,
		ClientAddress:  mi.ClientAddress,
		ClientMF:       mi.ClientMF,
		DeliveryPerson: mi.DeliveryPerson,
		Date:           mi.Date,
		Items:          mi.Items,
		TotalHT:        mi.TotalHT,
		TotalRemise:    mi.TotalRemise,
		TotalTTC:       mi.TotalTTC,
		CreatedAt:      mi.CreatedAt,
		UpdatedAt:      mi.UpdatedAt,
	}
}

// Create inserts a new invoice. The unique index on invoice_number rejects a
// concurrent writer that allocated the same number; that surfaces as
// domain.ErrInvoiceNumberTaken, which the allocator treats as a retry signal.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, fromDomainInvoice(invoice))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrInvoiceNumberTaken
		}
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	created := *invoice
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvoiceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoInvoice
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	return mi.toDomain(), nil
}

// FindLatest returns the most recently created invoice. Ties on created_at
// break on _id, which grows monotonically for driver-generated ids.
func (r *InvoiceRepository) FindLatest(ctx context.Context) (*domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	var mi mongoInvoice
	if err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("find latest invoice: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *InvoiceRepository) List(ctx context.Context) ([]domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var invoices []domain.Invoice
	for cursor.Next(ctx) {
		var mi mongoInvoice
		if err := cursor.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		invoices = append(invoices, *mi.toDomain())
	}
	return invoices, cursor.Err()
}

// Update overwrites the mutable fields. invoice_number and created_at are
// deliberately absent from the $set document: the number is immutable.
func (r *InvoiceRepository) Update(ctx context.Context, id string, invoice *domain.Invoice) (*domain.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvoiceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"client_name":     invoice.ClientName,
		"client_number":   invoice.ClientNumber,
		"client_address":  invoice.ClientAddress,
		"client_mf":       invoice.ClientMF,
		"delivery_person": invoice.DeliveryPerson,
		"date":            invoice.Date,
		"items":           invoice.Items,
		"total_ht":        invoice.TotalHT,
		"total_remise":    invoice.TotalRemise,
		"total_ttc":       invoice.TotalTTC,
		"updated_at":      invoice.UpdatedAt,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mi mongoInvoice
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mi)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvoiceNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

var _ ports.InvoiceRepository = (*InvoiceRepository)(nil)
