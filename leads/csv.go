package leads

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

var csvHeader = []string{
	"name",
	"location",
	"website",
	"source_url",
	"email",
	"email_source",
	"summary",
	"pain_points",
	"outreach_email",
}

// WriteCSV renders the batch as CSV with a header row, one row per
// business, in batch order.
func WriteCSV(w io.Writer, businesses []Business) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "leads: write csv header")
	}

	for _, b := range businesses {
		row := []string{
			b.Name,
			b.Location,
			b.Website,
			b.SourceURL,
			b.Email,
			b.EmailSource,
			b.Summary,
			b.PainPoints,
			b.OutreachEmail,
		}

		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "leads: write csv row for %s", b.Name)
		}
	}

	cw.Flush()

	return eris.Wrap(cw.Error(), "leads: flush csv")
}
