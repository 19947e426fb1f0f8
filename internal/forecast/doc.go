// Package forecast turns a surf-report.com forecast page into a typed table.
//
// # Page layout
//
// Each calendar day is a "forecast tab":
//
//	div.forecast-tab
//	  div.title > b           "Vendredi 9 Janvier"   (weekday, day, month; no year)
//	  div.content
//	    div.line              one hourly slot
//	      div.cell.date.with-border           "06:00"  (header lines add class "entetes")
//	      div.cell.large.waves.with-border    "1-1.5m"
//	      div.wind-color-N                    "12"     (wind speed)
//	      div.wind.img > img[alt]             "Ouest"  (wind direction)
//
// Extract walks this structure and produces RawRow values, substituting
// NotAvailable for any cell a line does not carry.
//
// # Normalization
//
// Normalizer derives a timestamp by combining a caller-supplied reference year
// with the day number and month name of the tab title, and splits the wave
// height range into min/max/average. Month names are looked up in an injected
// table (see package locale). Values that cannot be derived are left nil;
// nothing in this package fails on bad data.
package forecast
