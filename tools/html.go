/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tools

import (
	"fmt"
	"html"
	"io"

	"github.com/Comcast/patmatch/rules"
	. "github.com/Comcast/patmatch/util/testutil"

	md "github.com/russross/blackfriday/v2"
)

// RenderRuleSetHTML writes an HTML fragment documenting the rule
// set.  Doc strings are Markdown.
func RenderRuleSetHTML(rs *rules.RuleSet, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}
	code := func(x interface{}) string {
		return html.EscapeString(JS(x))
	}

	if rs.Doc != "" {
		f(`<div class="ruleSetDoc doc">%s</div>`, md.Run([]byte(rs.Doc)))
	}

	if 0 < len(rs.Clauses) {
		f(`<div class="clauses"><table>`)
		for i, cl := range rs.Clauses {
			f(`<tr class="clause"><td><div class="clauseNum">%d</div></td><td>`, i)
			if cl.Doc != "" {
				f(`<div class="clauseDoc doc">%s</div>`, md.Run([]byte(cl.Doc)))
			}
			f(`<table>`)
			f(`<tr><td>when</td><td><code>%s</code></td></tr>`, code(cl.When))
			f(`<tr><td>then</td><td><code>%s</code></td></tr>`, code(cl.Then))
			f(`</table>`)
			f(`</td></tr>`)
		}
		if rs.Default != nil {
			f(`<tr class="clause"><td><div class="clauseNum">default</div></td><td><code>%s</code></td></tr>`, code(rs.Default))
		}
		f(`</table></div>`)
	}

	if 0 < len(rs.Checks) {
		f(`<div class="checks"><table>`)
		for i, ch := range rs.Checks {
			f(`<tr class="check"><td><div class="checkNum">%d</div></td><td>`, i)
			if ch.Doc != "" {
				f(`<div class="checkDoc doc">%s</div>`, md.Run([]byte(ch.Doc)))
			}
			f(`<table>`)
			f(`<tr><td>when</td><td><code>%s</code></td></tr>`, code(ch.When))
			if ch.Fail != nil {
				f(`<tr><td>fail</td><td><code>%s</code></td></tr>`, code(ch.Fail))
			}
			f(`</table>`)
			f(`</td></tr>`)
		}
		f(`</table></div>`)
	}

	return nil
}

// RenderRuleSetPage writes a complete HTML page for the rule set.
func RenderRuleSetPage(rs *rules.RuleSet, out io.Writer, cssFiles []string) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/rules-html.css"}
	}

	name := html.EscapeString(rs.Name)

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, name)

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, name)

	if rs.Version != "" {
		fmt.Fprintf(out, "    <div class=\"version\">%s</div>\n", html.EscapeString(rs.Version))
	}

	if err := RenderRuleSetHTML(rs, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderRuleSetPage parses (but doesn't compile) the rule set
// in the file and renders its page.
func ReadAndRenderRuleSetPage(filename string, cssFiles []string, out io.Writer) error {
	rs, err := rules.ParseFile(filename)
	if err != nil {
		return err
	}
	return RenderRuleSetPage(rs, out, cssFiles)
}
