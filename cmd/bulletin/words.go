package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyhub-apps/pricebulletin"
	"github.com/pyhub-apps/pricebulletin/pkg/pdf"
)

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words <pdf>",
		Short: "Dump the positioned words the extractor sees",
		Long: `Dump the positioned words of a bulletin, one per line, in the
{'text', 'x0', 'top', 'x1', 'bottom'} form pdfplumber prints. Useful when a
page is skipped and the column geometry needs checking. With --text the page
text the report date is read from is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runWords,
	}
	cmd.Flags().IntP("page", "p", 0, "page to dump, 1-based (default all)")
	cmd.Flags().Float64("x-tolerance", 3.0, "x tolerance for word separation")
	cmd.Flags().Float64("y-tolerance", 3.0, "y tolerance for grouping glyphs into lines")
	cmd.Flags().Bool("text", false, "print the page text instead of the words")
	cmd.Flags().String("lib", "auto", "PDF library to use (auto, ledongthuc, dslipak)")
	return cmd
}

func runWords(cmd *cobra.Command, args []string) error {
	pageNum, _ := cmd.Flags().GetInt("page")
	xTolerance, _ := cmd.Flags().GetFloat64("x-tolerance")
	yTolerance, _ := cmd.Flags().GetFloat64("y-tolerance")
	asText, _ := cmd.Flags().GetBool("text")
	library, _ := cmd.Flags().GetString("lib")

	var (
		doc pdf.Document
		err error
	)
	switch library {
	case "auto":
		doc, err = pricebulletin.Open(args[0])
	case "ledongthuc":
		doc, err = pdf.OpenWithLedongthuc(args[0])
	case "dslipak":
		doc, err = pdf.OpenWithDslipak(args[0])
	default:
		return fmt.Errorf("unknown library: %s", library)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer doc.Close()

	pages := doc.GetPages()
	if pageNum != 0 {
		p, err := doc.GetPage(pageNum - 1)
		if err != nil {
			return err
		}
		pages = []pdf.Page{p}
	}

	out := cmd.OutOrStdout()
	for _, page := range pages {
		if asText {
			fmt.Fprintf(out, "# page %d\n%s\n", page.GetPageNumber(),
				page.ExtractText(pdf.WithXTolerance(xTolerance), pdf.WithYTolerance(yTolerance)))
			continue
		}
		words := page.ExtractWords(pdf.WithWordXTolerance(xTolerance), pdf.WithWordYTolerance(yTolerance))
		fmt.Fprintf(out, "# page %d (%.2f x %.2f): %d glyphs, %d words\n",
			page.GetPageNumber(), page.GetWidth(), page.GetHeight(),
			len(page.GetObjects().Chars), len(words))
		for _, w := range words {
			fmt.Fprintf(out, "{'text': %q, 'x0': %.2f, 'top': %.2f, 'x1': %.2f, 'bottom': %.2f}\n",
				w.Text, w.X0, w.Y0, w.X1, w.Y1)
		}
	}
	return nil
}
