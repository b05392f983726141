package service

import (
	"gameshop/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func originalPrice(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func discount(v int) *int {
	return &v
}

func list(items ...string) datatypes.JSONType[[]string] {
	return datatypes.NewJSONType(items)
}

func defaultProducts() []model.Product {
	return []model.Product{
		{
			ID:        1,
			Name:      "VIP",
			Price:     price("9.99"),
			Duration:  "30 days",
			Color:     "green",
			Category:  model.CategoryRanks,
			ImageURL:  "/images/products/vip-rank.png",
			ShortDesc: "Entry premium rank with the basic quality-of-life perks.",
			Features:  list("/kit VIP", "/wb portable crafting table", "/market up to 5 listings", "/sethome up to 3 homes", "VIP chat prefix"),
		},
		{
			ID:        2,
			Name:      "SVIP",
			Price:     price("19.99"),
			Duration:  "30 days",
			Color:     "blue",
			Category:  model.CategoryRanks,
			ImageURL:  "/images/products/svip-rank.png",
			ShortDesc: "More commands and more homes than VIP.",
			Features:  list("/kit SVIP", "/ec portable ender chest", "/repair item in hand", "/market up to 10 listings", "/sethome up to 4 homes"),
		},
		{
			ID:        3,
			Name:      "MVIP",
			Price:     price("29.99"),
			Duration:  "30 days",
			Color:     "purple",
			Category:  model.CategoryRanks,
			ImageURL:  "/images/products/mvip-rank.png",
			ShortDesc: "A real edge over other players.",
			Features:  list("/kit MVIP", "/repairall", "/market up to 15 listings", "/sethome up to 5 homes"),
		},
		{
			ID:        4,
			Name:      "LEGEND",
			Price:     price("49.99"),
			Duration:  "30 days",
			Color:     "orange",
			Category:  model.CategoryRanks,
			ImageURL:  "/images/products/legend-rank.png",
			ShortDesc: "Every rank perk the server offers.",
			Features:  list("/kit LEGEND", "/fly in the lobby", "/market up to 25 listings", "/sethome up to 8 homes"),
			Featured:  true,
		},
		{
			ID:       5,
			Name:     "Epic Keys",
			Price:    price("0.69"),
			Color:    "from-green-500 to-emerald-500",
			Category: model.CategoryKeys,
			ImageURL: "/images/products/epic-key.png",
		},
		{
			ID:       6,
			Name:     "Mythic Keys",
			Price:    price("1.99"),
			Color:    "from-blue-500 to-cyan-500",
			Category: model.CategoryKeys,
			ImageURL: "/images/products/mythic-key.png",
		},
		{
			ID:       7,
			Name:     "Legendary Keys",
			Price:    price("4.99"),
			Color:    "from-purple-500 to-pink-500",
			Category: model.CategoryKeys,
			ImageURL: "/images/products/legendary-key.png",
		},
		{
			ID:       8,
			Name:     "Mystery Box",
			Price:    price("19.99"),
			Color:    "from-orange-500 to-red-500",
			Category: model.CategoryKeys,
			ImageURL: "/images/products/mystery-box.png",
		},
		{
			ID:            9,
			Name:          "VIP Bundle",
			Price:         price("19.99"),
			OriginalPrice: originalPrice("27.00"),
			Category:      model.CategoryBundles,
			Color:         "green",
			Discount:      discount(26),
			Contents:      list("VIP rank for 30 days", "5x Epic Keys", "2x Mythic Keys"),
		},
		{
			ID:            10,
			Name:          "SVIP Bundle",
			Price:         price("39.99"),
			OriginalPrice: originalPrice("51.83"),
			Category:      model.CategoryBundles,
			Color:         "blue",
			Discount:      discount(23),
			Contents:      list("SVIP rank for 30 days", "10x Epic Keys", "3x Mythic Keys"),
		},
		{
			ID:            11,
			Name:          "Legend Bundle",
			Price:         price("99.99"),
			OriginalPrice: originalPrice("149.79"),
			Category:      model.CategoryBundles,
			Color:         "orange",
			Discount:      discount(33),
			Contents:      list("LEGEND rank for 30 days", "10x Legendary Keys", "Mystery Box"),
			Popular:       true,
		},
		{
			ID:            12,
			Name:          "Omnibus Bundle",
			Price:         price("199.99"),
			OriginalPrice: originalPrice("279.56"),
			Category:      model.CategoryBundles,
			Color:         "purple",
			Discount:      discount(28),
			Contents:      list("LEGEND rank for 90 days", "20x Legendary Keys", "3x Mystery Box"),
			BestOffer:     true,
		},
	}
}
