package product

import "github.com/shopspring/decimal"

func ptrString(s string) *string {
	return &s
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SeedProducts returns the boutique's launch catalog. It backs the in-memory
// repository and mirrors the rows inserted by the products seed migration.
func SeedProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Midnight Oud Eau de Parfum", Price: price("85.00"), Category: "Perfumes",
			Description: "A rich, mysterious blend of agarwood, rose, and amber. Perfect for cold Calgary evenings.",
			Image:       "/images/midnight-oud.png", Badge: ptrString("Best Seller"), Rating: 4.9, Reviews: 124, Stock: 15,
			Sizes: []string{"50ml", "100ml"}, Featured: true},
		{ID: "p2", Name: "Black Opium Eau de Parfum with Coffee & White Flowers", Price: price("65.00"), Category: "Perfumes",
			Description: "Fresh and airy with notes of jasmine, lavender, and mountain air. Inspired by the Rockies.",
			Image:       "/images/Black opium.png", Badge: ptrString("New"), Rating: 4.8, Reviews: 45, Stock: 20,
			Sizes: []string{"50ml", "100ml"}},
		{ID: "p3", Name: "Velvet Rose & Honey", Price: price("75.00"), Category: "Perfumes",
			Description: "Sweet and seductive floral fragrance with a warm honey base.",
			Image:       "https://images.unsplash.com/photo-1563170351-be82bc888aa4?q=80&w=1000&auto=format&fit=crop",
			Rating:      4.7, Reviews: 82, Stock: 8, Sizes: []string{"50ml"}},
		{ID: "p4", Name: "Bleu De Chanel", Price: price("90.00"), Category: "Perfumes",
			Description: "Bold citrus opening that settles into a smooth, leathery base.",
			Image:       "/images/bleu-de-chanel.png", Rating: 4.9, Reviews: 32, Stock: 12,
			Sizes: []string{"100ml"}, Featured: true},
		{ID: "p5", Name: "Santal Driftwood", Price: price("95.00"), Category: "Perfumes",
			Description: "Creamy sandalwood with a hint of sea salt and cardamom.",
			Image:       "https://images.unsplash.com/photo-1595425970377-c9703cf48b6d?q=80&w=1000&auto=format&fit=crop",
			Rating:      4.8, Reviews: 56, Stock: 18},
		{ID: "p6", Name: "Peony Silk & Pear", Price: price("68.00"), Category: "Perfumes",
			Description: "Light, fruity-floral fragrance that captures the essence of spring.",
			Image:       "https://images.unsplash.com/photo-1592945403244-b3fbafd7f539?q=80&w=1000&auto=format&fit=crop",
			Badge:       ptrString("New"), Rating: 4.6, Reviews: 19, Stock: 25},
		{ID: "s1", Name: "Glow Radiance Vitamin C Serum", Price: price("45.00"), Category: "Skincare",
			Description: "Brighten your skin and protect against local Calgary winds with our Vitamin C booster.",
			Image:       "https://images.unsplash.com/photo-1611930022073-b7a4ba5fcccd?q=80&w=1000&auto=format&fit=crop",
			Badge:       ptrString("Sale"), Rating: 4.6, Reviews: 95, Stock: 50},
		{ID: "s2", Name: "Arctic Hydration Face Cream", Price: price("38.00"), Category: "Skincare",
			Description: "Heavy-duty moisturizer specifically formulated for the dry Alberta climate.",
			Image:       "https://images.unsplash.com/photo-1570194065650-d99fb4b38b17?q=80&w=1000&auto=format&fit=crop",
			Rating:      5.0, Reviews: 67, Stock: 30},
		{ID: "s3", Name: "Midnight Recovery Oil", Price: price("52.00"), Category: "Skincare",
			Description: "Nighttime facial oil that repairs skin barrier while you sleep.",
			Image:       "https://images.unsplash.com/photo-1608248543803-ba4f8c70ae0b?q=80&w=1000&auto=format&fit=crop",
			Rating:      4.9, Reviews: 142, Stock: 40},
		{ID: "s4", Name: "Calgary Rose Water Mist", Price: price("24.00"), Category: "Skincare",
			Description: "Refreshing facial mist for an instant pick-me-up during dry days.",
			Image:       "https://images.unsplash.com/photo-1596755389378-c31d21fd1273?q=80&w=1000&auto=format&fit=crop",
			Rating:      4.7, Reviews: 88, Stock: 60},
		{ID: "g1", Name: "Mini Mist Humidifier", Price: price("29.00"), Category: "Gadgets",
			Description: "Portable USB humidifier to keep your room comfortable in dry weather.",
			Image:       "https://images.unsplash.com/photo-1638006355975-33e7fdd59b2e?q=80&w=1000&auto=format&fit=crop",
			Rating:      4.5, Reviews: 156, Stock: 100},
		{ID: "g2", Name: "Portable Neck Fan", Price: price("35.00"), Category: "Gadgets",
			Description: "Perfect for summer festivals and outdoor events in Calgary.",
			Image:       "https://images.unsplash.com/photo-1590422749897-47036da0b0ff?q=80&w=1000&auto=format&fit=crop",
			Rating:      4.2, Reviews: 24, Stock: 45},
		{ID: "gift1", Name: "Luxury Scented Candle Set", Price: price("55.00"), Category: "Gifts",
			Description: "Set of three hand-poured soy candles with premium fragrances.",
			Image:       "https://images.unsplash.com/photo-1602607362916-0a364499fc61?q=80&w=1000&auto=format&fit=crop",
			Badge:       ptrString("Best Seller"), Rating: 4.9, Reviews: 89, Stock: 25},
		{ID: "gift2", Name: "Artisan Tea Sampler Box", Price: price("40.00"), Category: "Gifts",
			Description: "A curated selection of luxury teas from around the world.",
			Image:       "https://images.unsplash.com/photo-1564890369478-c89ca6d9cde9?q=80&w=1000&auto=format&fit=crop",
			Rating:      4.8, Reviews: 31, Stock: 15},
		{ID: "gift3", Name: "Handcrafted Mug Set", Price: price("48.00"), Category: "Gifts",
			Description: "Set of two artisanal ceramic mugs, perfect for Calgary winter mornings.",
			Image:       "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?q=80&w=1000&auto=format&fit=crop",
			Rating:      4.7, Reviews: 22, Stock: 30},
		{ID: "t1", Name: "Oversized Silk Scrunchie Pack", Price: price("18.00"), Category: "Trending",
			Description: "High-quality silk scrunchies that don't damage your hair.",
			Image:       "https://images.unsplash.com/photo-1598522325074-042db73aa4e6?q=80&w=1000&auto=format&fit=crop",
			Rating:      4.4, Reviews: 78, Stock: 200},
		{ID: "t2", Name: "Minimalist Desktop Planter", Price: price("25.00"), Category: "Trending",
			Description: "Sleek cement planter that brings life to any office space.",
			Image:       "https://images.unsplash.com/photo-1459411552884-841db9b3cc2a?q=80&w=1000&auto=format&fit=crop",
			Badge:       ptrString("New"), Rating: 4.5, Reviews: 14, Stock: 50},
	}
}
