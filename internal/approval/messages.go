package approval

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"hardbound/internal/ledger"
)

// adminSummary renders the admin channel message for one approval: the
// request, the candidate list with the current selection marked, and the
// decision state.
func adminSummary(id string, record ledger.Approval) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Book request** `%s`\n", id)
	fmt.Fprintf(&b, "**%s** (%s) requested by <@%s>\n", record.BookTitle, record.RequestType, record.UserID)

	switch record.Status {
	case ledger.StatusApproved:
		fmt.Fprintf(&b, "Status: ✅ approved")
		if record.DownloadJobID != "" {
			fmt.Fprintf(&b, " (job `%s`)", record.DownloadJobID)
		}
		b.WriteString("\n")
	case ledger.StatusDenied:
		fmt.Fprintf(&b, "Status: ❌ denied (%s)\n", record.Result)
	case ledger.StatusCompleted:
		b.WriteString("Status: 📚 completed\n")
	default:
		b.WriteString("Status: ⏳ waiting for decision\n")
	}

	for i, candidate := range record.Candidates {
		marker := "  "
		if candidate.DownloadURL == record.Selected.DownloadURL && candidate.Title == record.Selected.Title {
			marker = "▶ "
		}
		fmt.Fprintf(&b, "%s%d. %s — %s, %d seeders (%s)\n",
			marker, i+1, candidate.Title,
			humanize.Bytes(uint64(candidate.Size)),
			candidate.Seeders, candidate.Indexer)
	}
	return strings.TrimRight(b.String(), "\n")
}
