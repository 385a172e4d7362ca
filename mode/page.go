package mode

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Activity Detection in Videos</title>
</head>
<body>
  <h1>Activity Detection in Videos</h1>
  <p>Upload a synthetic video and a real video, name an activity and compare how often it is detected.</p>
  <form id="analysis" action="/api/v1/analyses" method="post" enctype="multipart/form-data">
    <p><label>Synthetic video (A) <input type="file" name="video_a" accept=".mp4,.avi,.mov" required></label></p>
    <p><label>Real video (B) <input type="file" name="video_b" accept=".mp4,.avi,.mov" required></label></p>
    <p><label>Activity <input type="text" name="activity" required></label></p>
    <p><label>Trim length in seconds (optional) <input type="number" name="trim_length" step="any"></label></p>
    <p><button type="submit">Analyze</button></p>
  </form>
  <pre id="videoA"></pre>
  <pre id="videoB"></pre>
  <script>
    document.getElementById("analysis").addEventListener("submit", async (e) => {
      e.preventDefault();
      const resp = await fetch(e.target.action, {method: "POST", body: new FormData(e.target)});
      const body = await resp.json();
      document.getElementById("videoA").textContent = body.error || body.videoA;
      document.getElementById("videoB").textContent = body.error ? "" : body.videoB;
    });
  </script>
</body>
</html>
`
