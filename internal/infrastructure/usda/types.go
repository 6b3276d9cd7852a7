package usda

// Food is a food item from the USDA FoodData Central search API
type Food struct {
	FdcID       int        `json:"fdcId"`
	Description string     `json:"description"`
	DataType    string     `json:"dataType"`
	BrandOwner  string     `json:"brandOwner,omitempty"`
	FoodClass   string     `json:"foodClass,omitempty"`
	Nutrients   []Nutrient `json:"foodNutrients"`
}

// Nutrient is a single nutrient from USDA data
type Nutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// SearchResponse is the response from the USDA search API
type SearchResponse struct {
	Foods       []Food `json:"foods"`
	TotalHits   int    `json:"totalHits"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
}
