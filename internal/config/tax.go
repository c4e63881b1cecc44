package config

// DefaultTaxRates is the built-in VAT table used when no rates are supplied
// through configuration. Keys are upper-cased; ISO-3166 codes and English
// and Spanish country names resolve to the same rate.
func DefaultTaxRates() map[string]float64 {
	return map[string]float64{
		"ES": 21.00, "SPAIN": 21.00, "ESPAÑA": 21.00,
		"DE": 19.00, "GERMANY": 19.00, "ALEMANIA": 19.00,
		"FR": 20.00, "FRANCE": 20.00, "FRANCIA": 20.00,
		"IT": 22.00, "ITALY": 22.00, "ITALIA": 22.00,
		"PT": 23.00, "PORTUGAL": 23.00,
		"GB": 20.00, "UK": 20.00, "UNITED KINGDOM": 20.00, "REINO UNIDO": 20.00,
		"NL": 21.00, "NETHERLANDS": 21.00, "HOLANDA": 21.00,
		"BE": 21.00, "BELGIUM": 21.00, "BÉLGICA": 21.00,
		"AT": 20.00, "AUSTRIA": 20.00,
		"SE": 25.00, "SWEDEN": 25.00, "SUECIA": 25.00,
		"DK": 25.00, "DENMARK": 25.00, "DINAMARCA": 25.00,
		"PL": 23.00, "POLAND": 23.00, "POLONIA": 23.00,
		"IE": 23.00, "IRELAND": 23.00, "IRLANDA": 23.00,
		"CH": 7.70, "SWITZERLAND": 7.70, "SUIZA": 7.70,
		"MX": 16.00, "MEXICO": 16.00, "MÉXICO": 16.00,
		"AR": 21.00, "ARGENTINA": 21.00,
		"CL": 19.00, "CHILE": 19.00,
		"CO": 19.00, "COLOMBIA": 19.00,
		"PE": 18.00, "PERU": 18.00, "PERÚ": 18.00,
		"BR": 17.00, "BRAZIL": 17.00, "BRASIL": 17.00,
		"US": 0.00, "USA": 0.00, "UNITED STATES": 0.00, "ESTADOS UNIDOS": 0.00,
		"CA": 5.00, "CANADA": 5.00, "CANADÁ": 5.00,
	}
}
