package document

import (
	"fmt"
	"time"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/model"
)

// Statement title and clause texts are fixed administrative boilerplate,
// independent of input data.
const (
	titleLine1 = "SURAT PERNYATAAN TANGGUNGJAWAB MUTLAK (SPTJM)"
	titleLine2 = "Biaya Subimt Artikel/Insentif Publikasi/Opini Media Massa/Hak Kekayaan Intelektual"
)

var declarationClauses = [...]string{
	"Biaya Submit Artikel yang saya ajukan seperti yang tersebut pada lampiran belum pernah saya pertanggungjawabkan pada penelitian yang telah dilaksanakan, atau belum pernah menerima bantuan publikasi dari pihak/sumber dana lainnya, dan jika di kemudian hari terbukti bahwa biaya submit artikel yang saya ajukan telah pernah menerima bantuan publikasi dari pihak/sumber dana lainnya, maka saya akan mengembalikan dana insentif yang saya terima ke rekening Universitas Syiah Kuala.",
	"Biaya submit artikel yang saya ajukan seperti yang tersebut pada lampiran belum pernah dipertanggungjawabkan pada laporan penelitian dan belum pernah menerima bantuan publikasi dari sumber dana lain. Apabila di kemudian hari terbukti sebaliknya, saya bersedia mengembalikan dana yang telah diterima ke rekening Universitas Syiah Kuala.",
	"Artikel ilmiah/opini media massa/hak kekayaan intelektual yang diajukan seperti yang tersebut pada lampiran bebas plagiarisme dan merupakan karya asli.",
	"Artikel ilmiah/opini media massa/hak kekayaan intelektual yang diajukan seperti yang tersebut pada lampiran belum pernah menerima insentif pada periode sebelumnya maupun dari sumber dana lain.",
	"Saya bersedia mengembalikan dana insentif apabila di kemudian hari terbukti bahwa karya yang diajukan bukan milik saya, sudah pernah menerima insentif, atau tidak sesuai dengan ketentuan yang berlaku.",
	"Nomor rekening dan nama bank yang saya cantumkan benar dan aktif untuk menerima dana insentif.",
}

var attachmentHeaders = [...]string{"No. Proposal", "Judul Insentif", "Skema", "Jumlah Dana (Rp)"}

// BuildStatement produces the two-page statement description for one
// person: the declaration page with the identity table and the six
// clauses, then the attachment page with one table row per line item in
// assembly order. Pure; identical inputs and timestamp give an
// identical Statement.
func BuildStatement(person model.Person, items []model.LineItem, execTime time.Time) *Statement {
	var blocks []Block

	// Page 1: declaration
	blocks = append(blocks,
		Paragraph{Text: titleLine1, Size: 12, Bold: true, Align: AlignCenter},
		Paragraph{Text: titleLine2, Size: 12, Bold: true, Align: AlignCenter},
		Paragraph{},
		Paragraph{Text: "Yang bertanda tangan di bawah ini:"},
		identityTable(person),
		Paragraph{},
		Paragraph{Text: "Menyatakan dengan sesungguhnya bahwa:"},
	)

	for i, clause := range declarationClauses {
		blocks = append(blocks, Paragraph{
			Text:  fmt.Sprintf("%d. %s", i+1, clause),
			Align: AlignJustify,
		})
	}

	blocks = append(blocks,
		Paragraph{},
		Paragraph{Text: fmt.Sprintf("Banda Aceh,     %s", FormatTanggal(execTime)), Align: AlignRight},
		Paragraph{Text: "Yang menyatakan,", Align: AlignRight},
		Paragraph{},
		Paragraph{Text: "Materai 10000", Align: AlignRight, Color: "A0A0A0"},
		Paragraph{},
		Paragraph{Text: person.Nama, Align: AlignRight},
		Paragraph{Text: fmt.Sprintf("NIP. %s", person.NIP), Align: AlignRight},
	)

	// Page 2: attachment
	blocks = append(blocks,
		PageBreak{},
		Paragraph{
			Text: fmt.Sprintf(
				"Lampiran Daftar Biaya Submit Artikel/Insentif Publikasi/Opini Media Massa/"+
					"Hak Kekayaan Intelektual yang didanai atas nama %s sebagai berikut:", person.Nama),
			Align: AlignJustify,
		},
		attachmentTable(items),
		Paragraph{},
		Paragraph{},
		Paragraph{Text: "Tanda Tangan", Size: 9, Align: AlignRight},
	)

	return &Statement{Blocks: blocks}
}

// identityTable is the fixed five-row identity block.
func identityTable(person model.Person) Table {
	rows := [][2]string{
		{"Nama", person.Nama},
		{"NIP", person.NIP},
		{"Fakultas", person.Fakultas},
		{"Nomor Rekening", person.Rekening},
		{"Nama Bank", person.Bank},
	}

	t := Table{Rows: make([][]Cell, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []Cell{
			{Text: r[0]},
			{Text: ": " + r[1]},
		})
	}
	return t
}

// attachmentTable is the header row plus one row per line item.
func attachmentTable(items []model.LineItem) Table {
	t := Table{Rows: make([][]Cell, 0, len(items)+1)}

	header := make([]Cell, len(attachmentHeaders))
	for i, h := range attachmentHeaders {
		header[i] = Cell{Text: h, Size: 10, Bold: true}
	}
	t.Rows = append(t.Rows, header)

	for _, item := range items {
		t.Rows = append(t.Rows, []Cell{
			{Text: item.NoProp, Size: 10},
			{Text: item.Judul, Size: 10},
			{Text: item.Skema, Size: 10},
			{Text: item.Dana, Size: 10},
		})
	}
	return t
}
