package templates

// GenericName is the name of the fallback template.
const GenericName = "Generic"

// BuiltinTemplates returns the institution templates in detection order.
// Order is priority: an institution whose signatures overlap another's must
// come first.
func BuiltinTemplates() []Template {
	return []Template{
		bankOfAmerica(),
		chase(),
		wellsFargo(),
		usBank(),
		pnc(),
		citibank(),
	}
}

// GenericTemplate returns the fallback template. It has no signatures.
func GenericTemplate() Template {
	return Template{
		Name:        GenericName,
		LinePattern: `(\d{1,2}[/-]\d{1,2}[/-]?\d{0,4})\s+(.+?)\s+([-+]?\$?[\d,]+\.?\d*)`,
		DateFormats: []string{"1/2/2006", "1-2-2006", "1/2/06", "1-2-06", "2006-01-02", "1/2", "1-2"},
		BalancePatterns: map[string]string{
			BalanceBeginning:    `Beginning balance[^\$]*\$([\d,]+\.?\d*)`,
			BalanceEnding:       `Ending balance[^\$]*\$([\d,]+\.?\d*)`,
			BalanceAverageDaily: `Average (?:ledger|daily|collected|available) balance[:\s]+\$([\d,]+\.?\d*)`,
		},
	}
}

func bankOfAmerica() Template {
	return Template{
		Name:        "Bank of America",
		Signatures:  []string{`Bank of America`, `bankofamerica\.com`, `Business Advantage`, `BKOFAMERICA`},
		LinePattern: `(\d{1,2}/\d{1,2}/\d{2,4})\s+(.+?)\s+([-+]?\$?[\d,]+\.?\d*)`,
		DateFormats: []string{"1/2/2006", "1/2/06"},
		BalancePatterns: map[string]string{
			BalanceBeginning:    `Beginning balance[^\$]*\$([\d,]+\.?\d*)`,
			BalanceEnding:       `Ending balance[^\$]*\$([\d,]+\.?\d*)`,
			BalanceAverageDaily: `Average (?:ledger|daily) balance[:\s]+\$([\d,]+\.?\d*)`,
		},
		FooterMarkers: []string{`Page \d+ of \d+`, `See the big picture`, `Please see the Important Messages`},
	}
}

func chase() Template {
	return Template{
		Name: "Chase",
		// Word boundaries keep "PURCHASE" lines from other banks out.
		Signatures:  []string{`\bChase\b`, `chase\.com`, `JPMorgan Chase`, `JP Morgan`},
		LinePattern: `(\d{1,2}/\d{1,2})\s+(.+?)\s+(-?\$?[\d,]+\.?\d{2})`,
		DateFormats: []string{"1/2/2006", "1/2/06", "1/2"},
		BalancePatterns: map[string]string{
			BalanceBeginning:    `Beginning balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceEnding:       `Ending balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceAverageDaily: `Average (?:collected|ledger) balance[:\s]+\$([\d,]+\.?\d*)`,
		},
		FooterMarkers: []string{`Questions\?`, `Member FDIC`},
	}
}

func wellsFargo() Template {
	return Template{
		Name:        "Wells Fargo",
		Signatures:  []string{`Wells Fargo`, `wellsfargo\.com`, `WELLS FARGO BANK`},
		LinePattern: `(\d{1,2}/\d{1,2})\s+(.+?)\s+(-?\$?[\d,]+\.?\d{2})`,
		DateFormats: []string{"1/2/2006", "1/2/06", "1/2"},
		BalancePatterns: map[string]string{
			BalanceBeginning:    `Beginning balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceEnding:       `Ending balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceAverageDaily: `Average (?:ledger|available) balance[:\s]+\$([\d,]+\.?\d*)`,
		},
		FooterMarkers: []string{`wellsfargo\.com`, `Page \d+ of \d+`},
	}
}

func usBank() Template {
	return Template{
		Name:        "US Bank",
		Signatures:  []string{`U\.?S\.? Bank`, `usbank\.com`, `US BANK NATIONAL`},
		LinePattern: `(\d{1,2}/\d{1,2}/\d{2,4})\s+(.+?)\s+(-?\$?[\d,]+\.?\d{2})`,
		DateFormats: []string{"1/2/2006", "1/2/06"},
		BalancePatterns: map[string]string{
			BalanceBeginning:    `Beginning balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceEnding:       `Ending balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceAverageDaily: `Average ledger balance[:\s]+\$([\d,]+\.?\d*)`,
		},
		FooterMarkers: []string{`Member FDIC`},
	}
}

func pnc() Template {
	return Template{
		Name:        "PNC",
		Signatures:  []string{`PNC Bank`, `pnc\.com`, `PNC BANK`},
		LinePattern: `(\d{1,2}/\d{1,2})\s+(.+?)\s+(-?\$?[\d,]+\.?\d{2})`,
		DateFormats: []string{"1/2/2006", "1/2/06", "1/2"},
		BalancePatterns: map[string]string{
			BalanceBeginning:    `Beginning balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceEnding:       `Ending balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceAverageDaily: `Average (?:ledger|collected) balance[:\s]+\$([\d,]+\.?\d*)`,
		},
		FooterMarkers: []string{`Member FDIC`, `pnc\.com`},
	}
}

func citibank() Template {
	return Template{
		Name:        "Citibank",
		Signatures:  []string{`Citibank`, `citi\.com`, `CITIBANK`},
		LinePattern: `(\d{1,2}/\d{1,2}/\d{2,4})\s+(.+?)\s+(-?\$?[\d,]+\.?\d{2})`,
		DateFormats: []string{"1/2/2006", "1/2/06"},
		BalancePatterns: map[string]string{
			BalanceBeginning:    `Beginning balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceEnding:       `Ending balance[:\s]+\$([\d,]+\.?\d*)`,
			BalanceAverageDaily: `Average ledger balance[:\s]+\$([\d,]+\.?\d*)`,
		},
		FooterMarkers: []string{`Member FDIC`, `citi\.com`},
	}
}
