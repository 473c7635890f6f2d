// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package spreadsheet reads uploaded .xlsx workbooks and renders result
exports.

# Reading

ReadTable parses the first worksheet into a Table of raw strings keyed by
header name. Nothing is coerced here; numeric cleanup belongs to the import
flow so that the field validator sees the raw cells.

# Writing

BuildWorkbook renders a ReportData as the styled Excel export (header row,
one row per unit, trailing totals row). BuildPDF renders the same columns
as a landscape A4 document capped at PDFRowLimit rows with a truncation
note. Both share the export column order defined by ReportData.Headers.
*/
package spreadsheet
