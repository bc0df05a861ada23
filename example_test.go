package kiwimark_test

import (
	"errors"
	"fmt"

	"github.com/alnah/go-kiwimark"
)

// Example demonstrates basic Kiwi to HTML conversion.
func Example() {
	conv := kiwimark.NewConverter()

	result, err := conv.Convert(kiwimark.Input{
		Text: "Hello\n=====\n\nSome **bold** and _emphasis_.",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Print(result.HTML)
	// Output:
	// <h1>Hello</h1>
	// <p>
	// Some <b>bold</b> and <i>emphasis</i>.
	// </p>
}

// ExampleToHTML demonstrates converting lines with default options.
func ExampleToHTML() {
	fmt.Print(kiwimark.ToHTML([]string{
		"* fruit",
		"  * apple",
		"  * pear",
		"* bread",
	}))
	// Output:
	// <ul>
	//     <li>fruit
	//         <ul>
	//             <li>apple</li>
	//             <li>pear</li>
	//         </ul>
	//     </li>
	//     <li>bread</li>
	// </ul>
}

// Example_table demonstrates a table with a header row.
func Example_table() {
	fmt.Print(kiwimark.ToHTML(kiwimark.SplitLines("Name | Qty\n-----+----\nTea  | 2")))
	// Output:
	// <table>
	//     <tr>
	//         <th>Name</th>
	//         <th>Qty</th>
	//     </tr>
	//     <tr>
	//         <td>Tea</td>
	//         <td>2</td>
	//     </tr>
	// </table>
}

// Example_orgMode demonstrates org-mode headlines and literal bold.
func Example_orgMode() {
	conv := kiwimark.NewConverter(kiwimark.WithOrgMode(kiwimark.OrgModeOn))

	result, err := conv.Convert(kiwimark.Input{Text: "* Tasks\n** Today\n**not bold**"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Print(result.HTML)
	// Output:
	// <h1>Tasks</h1>
	// <h2>Today</h2>
	// <p>
	// **not bold**
	// </p>
}

// Example_footnote demonstrates a footnote reference and its target.
func Example_footnote() {
	fmt.Print(kiwimark.ToHTML([]string{
		"Water boils at 100 degrees[^1].",
		"",
		"[^1]: At sea level.",
	}))
	// Output:
	// <p>
	// Water boils at 100 degrees<a id="footnote_ref_1" href="#footnote_target_1">[<sup>1</sup>]</a>.
	// </p>
	// <p class="footnote" id="footnote_target_1">1. At sea level. <a href="#footnote_ref_1">&#8617;</a></p>
}

// Example_warnings demonstrates a recoverable problem reported as a warning.
func Example_warnings() {
	result, err := kiwimark.NewConverter().Convert(kiwimark.Input{Text: "code:sh\necho hi"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, w := range result.Warnings {
		fmt.Println(w, errors.Is(w, kiwimark.ErrUnterminatedCodeBlock))
	}
	// Output: line 1: unterminated code block true
}
