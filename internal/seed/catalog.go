package seed

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"stockdesk/m/domain"
)

// Backend lists what the backend already knows.
type Backend interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Creator adds a product with its history.
type Creator interface {
	Create(ctx context.Context, p domain.Product, actor string) (domain.Product, error)
}

type Result struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Failed  []string `json:"failed"`
}

// ImportProducts reads a products CSV (header: code,name,category,
// buying_price,selling_price,stock,supplier) and creates every product whose
// code the backend does not have yet. Invalid rows are reported, not fatal.
func ImportProducts(ctx context.Context, r io.Reader, b Backend, c Creator, actor string) (Result, error) {
	var rows []domain.Product
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return Result{}, errors.Wrap(err, "read products csv")
	}

	existing, err := b.ListProducts(ctx)
	if err != nil {
		return Result{}, err
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.Code] = true
	}

	res := Result{Failed: []string{}}
	for _, row := range rows {
		code := strings.TrimSpace(row.Code)
		if code != "" && known[code] {
			res.Skipped++
			continue
		}
		row.History = nil
		if _, err := c.Create(ctx, row, actor); err != nil {
			res.Failed = append(res.Failed, code+": "+err.Error())
			continue
		}
		known[code] = true
		res.Created++
	}
	return res, nil
}

// LoadFile imports csvPath at startup. Problems are logged, never fatal.
func LoadFile(ctx context.Context, logger *zap.Logger, csvPath string, b Backend, c Creator, actor string) {
	file, err := os.Open(csvPath)
	if err != nil {
		logger.Warn("unable to open product catalog", zap.String("path", csvPath), zap.Error(err))
		return
	}
	defer file.Close()

	res, err := ImportProducts(ctx, file, b, c, actor)
	if err != nil {
		logger.Warn("unable to import product catalog", zap.String("path", csvPath), zap.Error(err))
		return
	}
	for _, f := range res.Failed {
		logger.Warn("product row rejected", zap.String("detail", f))
	}
	logger.Info("seeded product catalog",
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", len(res.Failed)))
}
