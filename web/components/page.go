package components

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const pageStyle = `body{background:#111;color:#ddd;font-family:monospace}
img{image-rendering:pixelated;border:1px solid #333}
td,th{padding:2px 8px;text-align:left}
.hidden{color:#666}`

// Page shows the live preview and the widget table.
func Page(rc *RenderContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder

		sb.WriteString("<!doctype html><html><head><meta charset=\"utf-8\"><title>neoclock</title>")
		sb.WriteString("<style>" + pageStyle + "</style></head><body>")
		fmt.Fprintf(&sb, "<h1>neoclock %dx%d</h1>", rc.Width, rc.Height)
		fmt.Fprintf(&sb, "<img id=\"frame\" src=\"%s\" width=\"%d\" height=\"%d\" alt=\"display\">",
			templ.EscapeString(FrameURL(rc.Scale)), rc.Width*rc.Scale, rc.Height*rc.Scale)

		sb.WriteString("<table><tr><th>#</th><th>kind</th><th>position</th><th>size</th><th>state</th></tr>")

		for _, wd := range rc.Widgets {
			fmt.Fprintf(&sb, "<tr class=\"%s\"><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				visibilityLabel(wd.Visible), wd.Index, templ.EscapeString(wd.Kind),
				PositionLabel(wd), SizeLabel(wd), visibilityLabel(wd.Visible))
		}

		sb.WriteString("</table>")
		fmt.Fprintf(&sb, "<script>setInterval(function(){var f=document.getElementById('frame');"+
			"f.src='%s&t='+Date.now();},%d);</script>", FrameURL(rc.Scale), rc.Refresh.Milliseconds())
		sb.WriteString("</body></html>")

		_, err := io.WriteString(w, sb.String())

		return err
	})
}
