package portfolio

// Currency is an addable portfolio currency.
type Currency struct {
	Code        string `json:"code"`
	Symbol      string `json:"symbol"`
	DisplayName string `json:"displayName"`
}

// CurrencyCatalog lists the currencies a user can add to the portfolio.
var CurrencyCatalog = []Currency{
	{Code: "USD", Symbol: "$", DisplayName: "Amerikan Doları"},
	{Code: "EUR", Symbol: "€", DisplayName: "Euro"},
	{Code: "GBP", Symbol: "£", DisplayName: "İngiliz Sterlini"},
	{Code: "JPY", Symbol: "¥", DisplayName: "Japon Yeni"},
	{Code: "CHF", Symbol: "Fr", DisplayName: "İsviçre Frangı"},
	{Code: "AUD", Symbol: "A$", DisplayName: "Avustralya Doları"},
	{Code: "CAD", Symbol: "C$", DisplayName: "Kanada Doları"},
	{Code: "CNY", Symbol: "¥", DisplayName: "Çin Yuanı"},
	{Code: "INR", Symbol: "₹", DisplayName: "Hindistan Rupisi"},
	{Code: "NZD", Symbol: "NZ$", DisplayName: "Yeni Zelanda Doları"},
	{Code: "SEK", Symbol: "kr", DisplayName: "İsveç Kronu"},
	{Code: "SGD", Symbol: "S$", DisplayName: "Singapur Doları"},
	{Code: "NOK", Symbol: "kr", DisplayName: "Norveç Kronu"},
	{Code: "MXN", Symbol: "$", DisplayName: "Meksika Pesosu"},
	{Code: "KRW", Symbol: "₩", DisplayName: "Güney Kore Wonu"},
}

// CurrencyByCode looks up a catalog currency.
func CurrencyByCode(code string) (Currency, bool) {
	for _, c := range CurrencyCatalog {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}
