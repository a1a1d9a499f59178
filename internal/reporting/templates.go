package reporting

// DashboardTemplate is the HTML dashboard template
const DashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>UX Benchmark | {{.Goal}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <style>
        .risk-low { color: #10b981; }
        .risk-medium { color: #f59e0b; }
        .risk-high { color: #ef4444; }
        .bg-risk-low { background-color: #d1fae5; border-color: #10b981; }
        .bg-risk-medium { background-color: #fef3c7; border-color: #f59e0b; }
        .bg-risk-high { background-color: #fee2e2; border-color: #ef4444; }
    </style>
</head>
<body class="bg-gray-50 min-h-screen">
    <!-- Header -->
    <header class="bg-white shadow-sm border-b sticky top-0 z-50">
        <div class="max-w-7xl mx-auto px-4 py-4 flex justify-between items-center">
            <div>
                <h1 class="text-xl font-bold text-gray-900">UXBench Report</h1>
                <p class="text-sm text-gray-500">{{.Timestamp.Format "Jan 2, 2006 3:04 PM"}} &middot; {{seconds .Duration}}</p>
            </div>
            <button onclick="window.print()" class="px-4 py-2 bg-gray-100 hover:bg-gray-200 rounded-lg text-sm">
                Print / PDF
            </button>
        </div>
    </header>

    <main class="max-w-7xl mx-auto px-4 py-6 space-y-6">
        <!-- Goal Banner -->
        <div class="bg-white rounded-xl shadow p-6">
            <p class="text-sm text-gray-500">Visitor goal{{if .Persona}} &middot; persona: {{.Persona}}{{end}}</p>
            <h2 class="text-2xl font-bold text-gray-900">&ldquo;{{.Goal}}&rdquo;</h2>
            {{if .Winner}}<p class="text-gray-700 mt-1">Best experience: <span class="font-semibold">{{.Winner}}</span></p>{{end}}
        </div>

        <!-- Ranking Table -->
        <div class="bg-white rounded-xl shadow overflow-hidden">
            <h3 class="text-lg font-semibold px-6 pt-5">Ranking</h3>
            <table class="w-full text-sm mt-3">
                <thead class="bg-gray-50 text-left text-gray-500">
                    <tr>
                        <th class="px-6 py-3">#</th>
                        <th class="px-6 py-3">Site</th>
                        <th class="px-6 py-3">Score</th>
                        <th class="px-6 py-3">Strengths</th>
                        <th class="px-6 py-3">Weaknesses</th>
                    </tr>
                </thead>
                <tbody class="divide-y">
                    {{range .Ranking}}
                    <tr>
                        <td class="px-6 py-3 font-bold">{{.Rank}}</td>
                        <td class="px-6 py-3 font-medium">{{.Site.DisplayName}}</td>
                        <td class="px-6 py-3">{{score .Score}}</td>
                        <td class="px-6 py-3 text-green-700">{{join .Strengths "; "}}</td>
                        <td class="px-6 py-3 text-red-700">{{join .Weaknesses "; "}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>

        <!-- Per-Site Results -->
        <div class="grid md:grid-cols-2 gap-4">
            {{range .Sites}}
            <div class="bg-white rounded-xl shadow p-5 border-l-4 {{if .GoalAchieved}}border-green-500{{else}}border-red-500{{end}}">
                <div class="flex justify-between items-start">
                    <div>
                        <h4 class="font-semibold text-gray-900">{{.Site.DisplayName}}</h4>
                        {{if .GoalAchieved}}
                        <p class="text-green-600 text-sm">Goal achieved in {{.Steps}} steps ({{seconds .Duration}})</p>
                        {{else}}
                        <p class="text-red-600 text-sm">Abandoned: {{.AbandonReason}}</p>
                        {{end}}
                    </div>
                    <div class="text-right">
                        <p class="text-2xl font-bold risk-{{riskClass .Risk}}">{{score .Risk}}</p>
                        <p class="text-xs text-gray-500">risk &middot; {{.RiskTier.Label}}</p>
                    </div>
                </div>
                {{if .FrictionPoints}}
                <div class="mt-3">
                    <p class="text-xs text-gray-500 uppercase">Friction</p>
                    <ul class="list-disc list-inside text-sm text-gray-700">
                        {{range .FrictionPoints}}<li>{{.}}</li>{{end}}
                    </ul>
                </div>
                {{end}}
            </div>
            {{end}}
        </div>

        <!-- Comparison -->
        <div class="bg-white rounded-xl shadow p-6">
            <h3 class="text-lg font-semibold">Head to Head</h3>
            <dl class="grid grid-cols-2 md:grid-cols-5 gap-4 mt-3 text-sm">
                {{with .Comparison}}
                {{if .Fastest}}<div><dt class="text-gray-500">Fastest</dt><dd class="font-medium">{{.Fastest}}</dd></div>{{end}}
                {{if .Slowest}}<div><dt class="text-gray-500">Slowest</dt><dd class="font-medium">{{.Slowest}}</dd></div>{{end}}
                {{if .MostFriction}}<div><dt class="text-gray-500">Most friction</dt><dd class="font-medium">{{.MostFriction}}</dd></div>{{end}}
                {{if .LeastFriction}}<div><dt class="text-gray-500">Least friction</dt><dd class="font-medium">{{.LeastFriction}}</dd></div>{{end}}
                {{if .HighestRisk}}<div><dt class="text-gray-500">Highest risk</dt><dd class="font-medium">{{.HighestRisk}}</dd></div>{{end}}
                {{end}}
            </dl>
            {{if .Comparison.CommonFriction}}
            <p class="text-sm text-gray-500 mt-4">Friction shared by at least half the sites:</p>
            <ul class="list-disc list-inside text-sm text-gray-700">
                {{range .Comparison.CommonFriction}}<li>{{.}}</li>{{end}}
            </ul>
            {{end}}
        </div>

        <!-- Recommendations -->
        {{if .Recommendations}}
        <div class="bg-white rounded-xl shadow p-6">
            <h3 class="text-lg font-semibold">Recommendations</h3>
            <ul class="divide-y mt-3">
                {{range .Recommendations}}
                <li class="py-3">
                    <p class="font-medium text-gray-900">{{.Site}}</p>
                    <p class="text-sm text-gray-700">{{.Suggestion}}</p>
                    {{if .Reference}}<p class="text-xs text-gray-500 mt-1">Reference: {{.Reference}}</p>{{end}}
                </li>
                {{end}}
            </ul>
        </div>
        {{end}}
    </main>
</body>
</html>`
