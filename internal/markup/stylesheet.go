package markup

// Stylesheet holds the block styling rules for serialized markup. The same
// rules apply to the editing context (.rte-editor) and the read-only
// rendering context (.prose-rte) so a stored article looks the same in both.
const Stylesheet = `.rte-editor[data-placeholder]:empty:before {
  content: attr(data-placeholder);
  color: #94a3b8;
  pointer-events: none;
}
.rte-editor h2, .prose-rte h2 { font-size: 1.25rem; font-weight: 700; margin: 1rem 0 0.5rem; }
.rte-editor h3, .prose-rte h3 { font-size: 1.05rem; font-weight: 600; margin: 0.75rem 0 0.4rem; }
.rte-editor h2 { color: #1e293b; }
.rte-editor h3 { color: #334155; }
.rte-editor p, .prose-rte p { margin: 0.4rem 0; }
.prose-rte p { line-height: 1.75; }
.rte-editor ul, .prose-rte ul { list-style: disc; padding-left: 1.5rem; margin: 0.5rem 0; }
.rte-editor ol, .prose-rte ol { list-style: decimal; padding-left: 1.5rem; margin: 0.5rem 0; }
.rte-editor li { margin: 0.2rem 0; }
.rte-editor blockquote, .prose-rte blockquote {
  border-left: 3px solid #3b82f6;
  margin: 0.75rem 0;
  padding: 0.5rem 1rem;
  background: #f0f9ff;
  color: #475569;
  border-radius: 0 0.375rem 0.375rem 0;
}
.rte-editor a, .prose-rte a { color: #2563eb; text-decoration: underline; }
.rte-editor hr { border: none; border-top: 1px solid #e2e8f0; margin: 1rem 0; }
.rte-figure, .prose-rte figure { display: block; margin: 1rem auto; text-align: center; max-width: 100%; }
.rte-img, .prose-rte figure img {
  max-width: 100%;
  height: auto;
  border-radius: 0.5rem;
  border: 1px solid #e2e8f0;
  display: block;
  margin: 0 auto;
}
.rte-caption, .prose-rte figcaption { font-size: 0.75rem; color: #64748b; margin-top: 0.375rem; font-style: italic; }
`

// Page wraps body markup in a standalone read-only page using Stylesheet.
func Page(title, body string) string {
	return "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>" +
		escape(title) + "</title>\n<style>\n" + Stylesheet + "</style>\n</head>\n<body>\n<article class=\"prose-rte\">\n" +
		body + "\n</article>\n</body>\n</html>\n"
}
