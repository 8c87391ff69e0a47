package pdf

// styles maps style names to the CSS injected into the rendered page.
var styles = map[string]string{
	"professional": professionalCSS,
	"modern":       modernCSS,
}

const professionalCSS = `
body {
	font-family: Georgia, "Times New Roman", serif;
	font-size: 11pt;
	line-height: 1.4;
	color: #1a1a1a;
	max-width: 7.5in;
	margin: 0 auto;
}
h1 {
	font-size: 20pt;
	margin: 0 0 4pt 0;
	text-align: center;
}
h2 {
	font-size: 13pt;
	border-bottom: 1px solid #333;
	margin: 14pt 0 6pt 0;
	padding-bottom: 2pt;
	text-transform: uppercase;
	letter-spacing: 1px;
}
h3 {
	font-size: 11.5pt;
	margin: 8pt 0 2pt 0;
}
p { margin: 4pt 0; }
ul { margin: 4pt 0; padding-left: 18pt; }
li { margin: 2pt 0; }
a { color: #1a1a1a; text-decoration: none; }
`

const modernCSS = `
body {
	font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
	font-size: 10.5pt;
	line-height: 1.5;
	color: #2d3748;
	max-width: 7.5in;
	margin: 0 auto;
}
h1 {
	font-size: 22pt;
	font-weight: 300;
	margin: 0 0 2pt 0;
	color: #1a202c;
}
h2 {
	font-size: 12pt;
	font-weight: 600;
	color: #2b6cb0;
	margin: 16pt 0 6pt 0;
	text-transform: uppercase;
	letter-spacing: 2px;
}
h3 {
	font-size: 11pt;
	font-weight: 600;
	margin: 8pt 0 2pt 0;
}
p { margin: 4pt 0; }
ul { margin: 4pt 0; padding-left: 16pt; }
li { margin: 3pt 0; }
a { color: #2b6cb0; text-decoration: none; }
`
