package handlers

const loginPageHTML = `<!DOCTYPE html>
<html><head><title>Admin Login</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:360px;margin:80px auto;padding:20px;color:#333}input{width:100%;padding:8px;margin:6px 0}button{padding:8px 16px}#msg{color:#b00}</style>
</head><body>
<h1>Admin Login</h1>
<form id="f">
<input name="username" placeholder="Username" autocomplete="username" required>
<input name="password" type="password" placeholder="Password" autocomplete="current-password" required>
<button type="submit">Sign in</button>
</form>
<p id="msg"></p>
<script>
document.getElementById('f').addEventListener('submit', async (e) => {
  e.preventDefault();
  const data = Object.fromEntries(new FormData(e.target));
  const res = await fetch('/login', {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify(data)});
  if (res.ok) { window.location = '/'; return; }
  const body = await res.json().catch(() => ({}));
  document.getElementById('msg').textContent = body.message || 'Login failed';
});
</script>
</body></html>`

const adminPageHTML = `<!DOCTYPE html>
<html><head><title>Fraud Reports</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:1000px;margin:0 auto;padding:20px;color:#333}table{border-collapse:collapse;width:100%}td,th{border:1px solid #ddd;padding:6px;text-align:left;vertical-align:top}</style>
</head><body>
<h1>Fraud Reports</h1>
<p><a href="/logout">Log out</a></p>
<div id="stats"></div>
<table><thead><tr><th>ID</th><th>Type</th><th>Time</th><th>Contact</th><th>Description</th><th>Files</th></tr></thead><tbody id="rows"></tbody></table>
<script>
const esc = (s) => String(s ?? '').replace(/[&<>"']/g, (c) => ({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;',"'":'&#39;'}[c]));
(async () => {
  const stats = await (await fetch('/api/stats')).json();
  document.getElementById('stats').textContent = 'Reports: ' + stats.stats.report_count + ', evidence files: ' + stats.stats.evidence_count;
  const body = await (await fetch('/api/admin/reports')).json();
  document.getElementById('rows').innerHTML = body.reports.map((r) =>
    '<tr><td>' + esc(r.report_id) + '</td><td>' + esc(r.fraud_type) + '</td><td>' + esc(r.fraud_time) +
    '</td><td>' + esc(r.contact_info) + '</td><td>' + esc(r.description) + '</td><td>' +
    r.files.map((f) => '<a href="/api/admin/reports/' + encodeURIComponent(r.report_id) + '/evidence/' + encodeURIComponent(f.saved_name) + '">' + esc(f.original_name) + '</a>').join('<br>') +
    '</td></tr>').join('');
})();
</script>
</body></html>`
