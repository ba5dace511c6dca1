// Package configurator считает предварительную цену индивидуального торта
// и собирает его текстовое описание для позиции заказа.
package configurator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	PricePerKg        = decimal.NewFromInt(950)
	ExtraFillingPrice = decimal.NewFromInt(300)
	ExtraBasePrice    = decimal.NewFromInt(200)

	DefaultWeight = decimal.NewFromInt(1)
	MinWeight     = decimal.RequireFromString("0.5")
)

const EmptyDescription = "Индивидуальный торт без указания деталей"

// Selection: выбор покупателя в конструкторе. Пустые строки означают «не выбрано».
type Selection struct {
	WeightKg      decimal.Decimal
	MainBase      string
	ExtraBases    []string
	MainFilling   string
	ExtraFillings []string
	Notes         string
}

// Weight возвращает вес с учётом значения по умолчанию и нижней границы.
func (s Selection) Weight() decimal.Decimal {
	w := s.WeightKg
	if !w.IsPositive() {
		return DefaultWeight
	}
	if w.LessThan(MinWeight) {
		return MinWeight
	}
	return w
}

// Quote: цена в целых рублях. Доплата за дополнительные слои берётся,
// только если выбран основной бисквит или основная начинка.
func Quote(s Selection) decimal.Decimal {
	total := s.Weight().Mul(PricePerKg)

	if strings.TrimSpace(s.MainFilling) != "" || strings.TrimSpace(s.MainBase) != "" {
		total = total.
			Add(ExtraFillingPrice.Mul(decimal.NewFromInt(int64(len(nonEmpty(s.ExtraFillings)))))).
			Add(ExtraBasePrice.Mul(decimal.NewFromInt(int64(len(nonEmpty(s.ExtraBases))))))
	}
	return total.Round(0)
}

func Describe(s Selection) string {
	var parts []string
	if v := strings.TrimSpace(s.MainBase); v != "" {
		parts = append(parts, "Бисквит: "+v)
	}
	if v := nonEmpty(s.ExtraBases); len(v) > 0 {
		parts = append(parts, "Доп. бисквиты: "+strings.Join(v, ", "))
	}
	if v := strings.TrimSpace(s.MainFilling); v != "" {
		parts = append(parts, "Начинка: "+v)
	}
	if v := nonEmpty(s.ExtraFillings); len(v) > 0 {
		parts = append(parts, "Доп. начинки: "+strings.Join(v, ", "))
	}
	if v := strings.TrimSpace(s.Notes); v != "" {
		parts = append(parts, "Пожелания: "+v)
	}
	if len(parts) == 0 {
		return EmptyDescription
	}
	return strings.Join(parts, ". ")
}

// Name: имя позиции в корзине, например «Индивидуальный торт (1.5 кг)».
func Name(s Selection) string {
	return fmt.Sprintf("Индивидуальный торт (%s кг)", s.Weight().String())
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
