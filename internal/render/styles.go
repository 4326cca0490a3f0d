package render

// Per-view CSS injected alongside each kind of content. Only the block of
// the view on screen is present at any time.

const pdfCSS = `
.content-page.pdf-page {
    background: #fff;
    padding: 0;
    overflow-y: auto;
    height: calc(100vh - 60px);
}
.pdf-container {
    padding: 5px;
    width: 100%;
    max-width: 900px;
    margin: 0 auto;
    min-height: 500px;
    display: flex;
    flex-direction: column;
    align-items: center;
    gap: 20px;
}
.pdf-page-canvas {
    display: block;
    width: 100%;
    max-width: 100%;
    background: white;
    box-shadow: 0 1px 3px rgba(0,0,0,0.12);
}
`

const videoCSS = `
.video-page {
    padding: 0;
    margin: 0;
    background: #000;
    height: calc(100vh - 60px);
    display: flex;
    align-items: center;
    justify-content: center;
}
.video-container {
    width: 100%;
    height: 100%;
    position: relative;
}
.video-player {
    width: 100%;
    height: 100%;
    object-fit: contain;
    background: #000;
}
@media (max-width: 768px) {
    .video-page { height: 100vh; }
}
`

const frameCSS = `
.iframe-page {
    padding: 0;
    max-width: 100%;
    margin: 0;
    background: #fff;
    overflow: hidden;
}
.iframe-container {
    position: relative;
    width: 100%;
    height: 100vh;
    overflow: hidden;
}
.embedded-content {
    position: absolute;
    top: 0;
    left: 0;
    width: 100%;
    height: 100%;
    border: none;
    background: #fff;
}
`

const fragmentCSS = `
.content-page {
    max-width: 1000px;
    margin: 0 auto;
    padding: 20px;
    background: #fff;
}
.html-content img {
    max-width: 100%;
    height: auto;
}
.html-content table {
    border-collapse: collapse;
    overflow-x: auto;
    display: block;
}
.html-content td, .html-content th {
    border: 1px solid #ddd;
    padding: 6px 10px;
}
`

const errorCSS = `
.error-message {
    margin: 40px auto;
    max-width: 600px;
    padding: 20px;
    border-left: 4px solid #d9534f;
    background: #fdf2f2;
    color: #7a1f1f;
}
`
