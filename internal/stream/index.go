package stream

import "net/http"

// indexHTML shows the frames and zooms on click (shift-click zooms out).
const indexHTML = `<!DOCTYPE html>
<html>
<head><title>fractal</title></head>
<body style="margin:0;background:#000">
<img id="frame" style="display:block;margin:auto">
<script>
const img = document.getElementById("frame");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.binaryType = "blob";
ws.onmessage = (ev) => {
  if (typeof ev.data === "string") {
    console.log(JSON.parse(ev.data).error);
    return;
  }
  const old = img.src;
  img.src = URL.createObjectURL(ev.data);
  if (old) URL.revokeObjectURL(old);
};
img.onclick = (ev) => {
  ws.send(JSON.stringify({zoom: {x: ev.offsetX, y: ev.offsetY, factor: ev.shiftKey ? 2 : 0.5}}));
};
</script>
</body>
</html>
`

func serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}
