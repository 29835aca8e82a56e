package product

type Product struct {
	ID     int64   `json:"productId"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Stock  int     `json:"stock"`
	Active bool    `json:"active"`
}

// Stock is the snapshot shape served to other services.
type Stock struct {
	ProductID   int64 `json:"productId"`
	StockActual int   `json:"stockActual"`
	Disponible  bool  `json:"disponible"`
}

func (p Product) StockView() Stock {
	return Stock{
		ProductID:   p.ID,
		StockActual: p.Stock,
		Disponible:  p.Stock > 0,
	}
}
