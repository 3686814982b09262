package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleanhome/CH-BookingService/internal/config"
	"github.com/cleanhome/CH-BookingService/internal/domain"
)

// currencyPrecision точность денежных сумм (центы)
const currencyPrecision = 2

// tierRates тарифы за единицу для одного типа уборки
type tierRates struct {
	bedroom  decimal.Decimal
	bathroom decimal.Decimal
}

// Engine вычисляет стоимость бронирования по тарифной таблице.
// Вся денежная арифметика выполняется в decimal: итоговая сумма
// сохраняется в БД и дословно попадает в письма и документы,
// поэтому дрейф плавающей точки недопустим.
type Engine struct {
	rates   map[domain.ServiceTier]tierRates
	taxRate decimal.Decimal
}

// NewEngine создает движок цен из иммутабельной конфигурации бронирования
func NewEngine(cfg config.BookingConfig) *Engine {
	rates := make(map[domain.ServiceTier]tierRates, len(cfg.Rates))
	for tier, r := range cfg.Rates {
		rates[domain.ServiceTier(tier)] = tierRates{
			bedroom:  decimal.NewFromFloat(r.BedroomRate),
			bathroom: decimal.NewFromFloat(r.BathroomRate),
		}
	}

	return &Engine{
		rates:   rates,
		taxRate: decimal.NewFromFloat(cfg.TaxRate),
	}
}

// Price вычисляет разбивку стоимости: построчно по измерениям, налог, итог.
// Отрицательные и нулевые обязательные измерения отсекаются вызывающей
// стороной до этого вызова.
func (e *Engine) Price(tier domain.ServiceTier, bedrooms, bathrooms int) (*domain.PriceBreakdown, error) {
	rates, ok := e.rates[tier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownServiceTier, tier)
	}

	bedroomSubtotal := rates.bedroom.Mul(decimal.NewFromInt(int64(bedrooms))).Round(currencyPrecision)
	bathroomSubtotal := rates.bathroom.Mul(decimal.NewFromInt(int64(bathrooms))).Round(currencyPrecision)

	subtotal := bedroomSubtotal.Add(bathroomSubtotal)
	tax := subtotal.Mul(e.taxRate).Round(currencyPrecision)
	total := subtotal.Add(tax)

	return &domain.PriceBreakdown{
		Tier:             tier,
		Bedrooms:         bedrooms,
		Bathrooms:        bathrooms,
		BedroomSubtotal:  bedroomSubtotal,
		BathroomSubtotal: bathroomSubtotal,
		Subtotal:         subtotal,
		TaxAmount:        tax,
		Total:            total,
	}, nil
}

// Rates возвращает тарифы для типа уборки (для отображения клиенту)
func (e *Engine) Rates(tier domain.ServiceTier) (bedroomRate, bathroomRate decimal.Decimal, err error) {
	rates, ok := e.rates[tier]
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownServiceTier, tier)
	}
	return rates.bedroom, rates.bathroom, nil
}
