package service

import (
	"errors"
	"fmt"
	"time"

	"go-bookkeeping/internal/apperr"
	"go-bookkeeping/internal/model"
	"go-bookkeeping/internal/repository"
	"go-bookkeeping/internal/ws"
	"go-bookkeeping/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordTransactionLine struct {
	ItemID    uuid.UUID        `json:"item_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type RecordTransactionRequest struct {
	Name          string                `json:"name"`
	SupplierID    *uuid.UUID            `json:"supplier_id"`
	Date          string                `json:"date"`
	Type          model.TransactionType `json:"type"`
	PaymentMethod string                `json:"payment_method"`
	Notes         string                `json:"notes"`
	// TotalAmount is accepted for wire compatibility but never trusted; the
	// persisted total is recomputed from the lines.
	TotalAmount    *decimal.Decimal        `json:"total_amount"`
	IsStockRelated bool                    `json:"is_stock_related"`
	Items          []RecordTransactionLine `json:"items"`
}

type TransactionLineDetail struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// TransactionDetail flattens the header with supplier fields and joined
// lines. Missing supplier data degrades to blank fields, never an error.
type TransactionDetail struct {
	ID              uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	Date            string                  `json:"date"`
	Type            model.TransactionType   `json:"type"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	PaymentMethod   string                  `json:"payment_method"`
	Notes           string                  `json:"notes"`
	IsStockRelated  bool                    `json:"is_stock_related"`
	CreatedAt       time.Time               `json:"created_at"`
	SupplierID      *uuid.UUID              `json:"supplier_id,omitempty"`
	SupplierName    string                  `json:"supplier_name,omitempty"`
	SupplierCity    string                  `json:"supplier_city,omitempty"`
	SupplierPhone   string                  `json:"supplier_phone,omitempty"`
	SupplierEmail   string                  `json:"supplier_email,omitempty"`
	SupplierAddress string                  `json:"supplier_address,omitempty"`
	Items           []TransactionLineDetail `json:"items"`
}

// ListTransactionsFilter mirrors the query surface of the list endpoint.
// Scope is one of "all", "year", "month", "date".
type ListTransactionsFilter struct {
	Type             model.TransactionType
	StockRelatedOnly bool
	Scope            string
	Year             int
	Month            int
	Date             string
}

type TransactionService interface {
	RecordTransaction(tenantID string, req *RecordTransactionRequest) (*model.Transaction, error)
	GetTransaction(tenantID string, id uuid.UUID) (*TransactionDetail, error)
	ListTransactions(tenantID string, filter ListTransactionsFilter) ([]model.Transaction, error)
}

type transactionService struct {
	txRepo       repository.TransactionRepository
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
	movementRepo repository.MovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewTransactionService(
	txRepo repository.TransactionRepository,
	itemRepo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
	movementRepo repository.MovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
) TransactionService {
	return &transactionService{
		txRepo:       txRepo,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		db:           db,
		wsHub:        hub,
	}
}

// RecordTransaction is the sole writer of transaction headers, line items and
// stock movements. All validation happens before any write; the three writes
// then run inside one database transaction, so a failure at any point leaves
// no partial state.
func (s *transactionService) RecordTransaction(tenantID string, req *RecordTransactionRequest) (*model.Transaction, error) {
	if req.Name == "" || req.Date == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "name and date are required")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidInput, "date must be formatted as YYYY-MM-DD")
	}
	if !req.Type.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, "type must be 'sale' or 'expense'")
	}
	if len(req.Items) == 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "transaction must include at least one item")
	}

	resolved := make([]*model.Item, len(req.Items))
	for i, line := range req.Items {
		if line.ItemID == uuid.Nil {
			return nil, apperr.New(apperr.KindInvalidInput, "item_id is required on every line")
		}
		if line.Quantity <= 0 {
			return nil, apperr.New(apperr.KindInvalidInput, "quantity must be greater than zero")
		}
		if line.UnitPrice == nil {
			return nil, apperr.New(apperr.KindInvalidInput, "unit_price is required on every line")
		}
		item, err := s.visibleItem(tenantID, line.ItemID)
		if err != nil {
			return nil, err
		}
		resolved[i] = item
	}

	if req.SupplierID != nil {
		if _, err := s.visibleSupplier(tenantID, *req.SupplierID); err != nil {
			return nil, err
		}
	}

	// Advisory stock check for stock-related sales. It reads the aggregate
	// without locking: two concurrent sales can both pass and jointly
	// oversell. Accepted boundary for a single-operator tool.
	if req.Type == model.TxSale && req.IsStockRelated {
		for i, line := range req.Items {
			onHand, err := s.movementRepo.CurrentStock(tenantID, line.ItemID)
			if err != nil {
				return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to read stock", err)
			}
			if onHand < line.Quantity {
				return nil, apperr.New(apperr.KindInsufficientStock,
					fmt.Sprintf("insufficient stock for item '%s': have %d, need %d", resolved[i].Name, onHand, line.Quantity))
			}
		}
	}

	// The caller-supplied total is ignored; the server total is the truth.
	total := decimal.Zero
	for _, line := range req.Items {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	transaction := &model.Transaction{
		OwnerID:        tenantID,
		Name:           req.Name,
		SupplierID:     req.SupplierID,
		Date:           date,
		Type:           req.Type,
		TotalAmount:    total,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
		IsStockRelated: req.IsStockRelated,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}
		for _, line := range req.Items {
			item := model.TransactionItem{
				TransactionID: transaction.ID,
				ItemID:        line.ItemID,
				Quantity:      line.Quantity,
				UnitPrice:     *line.UnitPrice,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			if req.IsStockRelated {
				movement := &model.StockMovement{
					OwnerID:           tenantID,
					ItemID:            line.ItemID,
					ChangeQty:         movementDelta(req.Type, line.Quantity),
					Reason:            movementReason(req.Type),
					TransactionItemID: &item.ID,
				}
				if err := s.movementRepo.Append(tx, movement); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to save transaction", err)
	}

	metrics.TransactionsRecorded.WithLabelValues(string(req.Type)).Inc()
	if req.IsStockRelated {
		metrics.StockMovements.WithLabelValues(string(movementReason(req.Type))).Add(float64(len(req.Items)))
	}

	s.wsHub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "transaction_recorded",
		"transaction": map[string]interface{}{
			"id":           transaction.ID,
			"type":         transaction.Type,
			"total_amount": transaction.TotalAmount,
		},
		"tenant_id": tenantID,
	})

	return transaction, nil
}

// movementDelta returns the signed quantity change: an expense purchases
// stock in, a sale moves stock out.
func movementDelta(t model.TransactionType, quantity int) int {
	if t == model.TxExpense {
		return quantity
	}
	return -quantity
}

func movementReason(t model.TransactionType) model.MovementReason {
	if t == model.TxExpense {
		return model.ReasonPurchase
	}
	return model.ReasonSale
}

func (s *transactionService) visibleItem(tenantID string, id uuid.UUID) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "item not found")
		}
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to load item", err)
	}
	if item.OwnerID != nil && *item.OwnerID != tenantID {
		return nil, apperr.New(apperr.KindNotFound, "item not found")
	}
	return item, nil
}

func (s *transactionService) visibleSupplier(tenantID string, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "supplier not found")
		}
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to load supplier", err)
	}
	if supplier.OwnerID != nil && *supplier.OwnerID != tenantID {
		return nil, apperr.New(apperr.KindNotFound, "supplier not found")
	}
	return supplier, nil
}

func (s *transactionService) GetTransaction(tenantID string, id uuid.UUID) (*TransactionDetail, error) {
	transaction, err := s.txRepo.FindByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "transaction not found")
		}
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to load transaction", err)
	}

	detail := &TransactionDetail{
		ID:             transaction.ID,
		Name:           transaction.Name,
		Date:           transaction.Date.Format("2006-01-02"),
		Type:           transaction.Type,
		TotalAmount:    transaction.TotalAmount,
		PaymentMethod:  transaction.PaymentMethod,
		Notes:          transaction.Notes,
		IsStockRelated: transaction.IsStockRelated,
		CreatedAt:      transaction.CreatedAt,
		SupplierID:     transaction.SupplierID,
	}
	if transaction.Supplier != nil {
		detail.SupplierName = transaction.Supplier.Name
		detail.SupplierCity = transaction.Supplier.City
		detail.SupplierPhone = transaction.Supplier.Phone
		detail.SupplierEmail = transaction.Supplier.Email
		detail.SupplierAddress = transaction.Supplier.Address
	}
	detail.Items = make([]TransactionLineDetail, len(transaction.Items))
	for i, line := range transaction.Items {
		lineDetail := TransactionLineDetail{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
		if line.Item != nil {
			lineDetail.ItemName = line.Item.Name
			lineDetail.SKU = line.Item.SKU
		}
		detail.Items[i] = lineDetail
	}
	return detail, nil
}

func (s *transactionService) ListTransactions(tenantID string, filter ListTransactionsFilter) ([]model.Transaction, error) {
	repoFilter := repository.TransactionFilter{
		Type:             filter.Type,
		StockRelatedOnly: filter.StockRelatedOnly,
	}

	switch filter.Scope {
	case "", "all":
	case "year":
		if filter.Year <= 0 {
			return nil, apperr.New(apperr.KindInvalidInput, "year is required for the year filter")
		}
		start, end := yearRange(filter.Year)
		repoFilter.Start, repoFilter.End = &start, &end
	case "month":
		if filter.Year <= 0 || filter.Month < 1 || filter.Month > 12 {
			return nil, apperr.New(apperr.KindInvalidInput, "month and year are required for the month filter")
		}
		start, end := monthRange(filter.Year, time.Month(filter.Month))
		repoFilter.Start, repoFilter.End = &start, &end
	case "date":
		day, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return nil, apperr.New(apperr.KindInvalidInput, "date must be formatted as YYYY-MM-DD")
		}
		start, end := dayRange(day)
		repoFilter.Start, repoFilter.End = &start, &end
	default:
		return nil, apperr.New(apperr.KindInvalidInput, "unknown filter scope")
	}

	transactions, err := s.txRepo.List(tenantID, repoFilter)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to list transactions", err)
	}
	return transactions, nil
}
