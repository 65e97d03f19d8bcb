package remote

const homePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>teapot remote</title>
<style>
body { font-family: sans-serif; background: #1b1d23; color: #ddd; text-align: center; }
.pad { display: grid; grid-template-columns: repeat(3, 4em); gap: .5em; justify-content: center; margin: 2em; }
button { font-size: 1.2em; padding: .6em; border-radius: .4em; border: 0; background: #3a3f4b; color: #eee; }
button.on { background: #c9a23f; color: #111; }
#status { font-family: monospace; margin-top: 1em; }
</style>
</head>
<body>
<h1>teapot</h1>
<div class="pad">
  <span></span><button data-key="up">&#9650;</button><span></span>
  <button data-key="left">&#9664;</button><button id="reset">&#8634;</button><button data-key="right">&#9654;</button>
  <span></span><button data-key="down">&#9660;</button><span></span>
</div>
<div>
  <button data-mode="phong">phong</button>
  <button data-mode="mirror">mirror</button>
  <button data-mode="glass">glass</button>
</div>
<div id="status">connecting</div>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
const status = document.getElementById("status");
const send = (m) => ws.readyState === 1 && ws.send(JSON.stringify(m));
const arrows = { ArrowUp: "up", ArrowDown: "down", ArrowLeft: "left", ArrowRight: "right" };

ws.onopen = () => { status.textContent = "connected"; };
ws.onclose = () => { status.textContent = "disconnected"; };
ws.onmessage = (e) => {
  const m = JSON.parse(e.data);
  if (m.type === "error") { status.textContent = "error: " + m.error; return; }
  status.textContent = (m.mode || "") + "  yaw " + (m.yaw || 0).toFixed(0) + "  pitch " + (m.pitch || 0).toFixed(0) +
    "  faces " + (m.faces || 0) + "/6  " + (m.mesh || "");
  document.querySelectorAll("[data-mode]").forEach((b) => b.classList.toggle("on", b.dataset.mode === m.mode));
};

document.addEventListener("keydown", (e) => {
  if (arrows[e.key] && !e.repeat) { send({ type: "key", key: arrows[e.key], pressed: true }); e.preventDefault(); }
});
document.addEventListener("keyup", (e) => {
  if (arrows[e.key]) { send({ type: "key", key: arrows[e.key], pressed: false }); e.preventDefault(); }
});
document.querySelectorAll("[data-key]").forEach((b) => {
  b.addEventListener("pointerdown", () => send({ type: "key", key: b.dataset.key, pressed: true }));
  b.addEventListener("pointerup", () => send({ type: "key", key: b.dataset.key, pressed: false }));
});
document.querySelectorAll("[data-mode]").forEach((b) => {
  b.addEventListener("click", () => send({ type: "mode", mode: b.dataset.mode }));
});
document.getElementById("reset").addEventListener("click", () => send({ type: "reset" }));
</script>
</body>
</html>
`
