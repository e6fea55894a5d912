package batch

import (
	"fmt"
	"strings"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
	"github.com/gosimple/slug"
)

// maxBaseLen caps the filename (before the extension) so archives stay
// portable across filesystems.
const maxBaseLen = 120

// FilenameFor returns the deterministic, filesystem-safe output name
// for one person: SPTJM_{slugified-name}_{nip}.pdf, length-capped.
func FilenameFor(p model.Person) string {
	base := strings.Trim(fmt.Sprintf("SPTJM_%s_%s", slug.Make(p.Nama), p.NIP), "_")
	if len(base) > maxBaseLen {
		base = base[:maxBaseLen]
	}
	return base + ".pdf"
}
