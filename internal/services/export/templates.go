package export

import "time"

// sharePage is the data the share template renders
type sharePage struct {
	Title     string
	Kind      string
	CreatedAt time.Time
	ExpiresAt *time.Time
	MaxViews  int
	Payload   string
}

// SharePageTemplate is the standalone HTML page for a shared result
const SharePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} | PageWright</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <style>
        .kind-generation { background-color: #dbeafe; color: #1d4ed8; }
        .kind-suggestions { background-color: #d1fae5; color: #047857; }
        .kind-analysis { background-color: #fef3c7; color: #b45309; }
    </style>
</head>
<body class="bg-gray-50 min-h-screen">
    <header class="bg-white shadow-sm border-b">
        <div class="max-w-4xl mx-auto px-4 py-4 flex justify-between items-center">
            <div>
                <h1 class="text-xl font-bold text-gray-900">PageWright</h1>
                <p class="text-sm text-gray-500">Shared {{.Kind}} result</p>
            </div>
            <span class="px-3 py-1 rounded-full text-sm font-medium kind-{{.Kind}}">{{.Kind | upper}}</span>
        </div>
    </header>

    <main class="max-w-4xl mx-auto px-4 py-6 space-y-6">
        <div class="bg-white rounded-xl shadow p-6">
            <h2 class="text-2xl font-bold text-gray-900">{{.Title}}</h2>
            <p class="text-sm text-gray-500 mt-1">
                Created {{.CreatedAt.Format "Jan 2, 2006 3:04 PM"}}
                {{if .ExpiresAt}} &middot; expires {{.ExpiresAt.Format "Jan 2, 2006"}}{{end}}
                {{if gt .MaxViews 0}} &middot; limited to {{.MaxViews}} views{{end}}
            </p>
        </div>

        <div class="bg-white rounded-xl shadow p-6">
            <h3 class="text-sm font-semibold text-gray-500 uppercase tracking-wide mb-3">Result</h3>
            <pre class="bg-gray-900 text-gray-100 rounded-lg p-4 overflow-x-auto text-sm">{{.Payload}}</pre>
        </div>

        <footer class="text-center text-sm text-gray-400 py-4">
            Built with PageWright
        </footer>
    </main>
</body>
</html>
`
