package sink

import (
	"bytes"
	"fmt"
)

const hoverCSS = `
    .marker-circle { transition: r 0.2s ease, stroke-width 0.2s ease; }
    .tooltip { transition: opacity 0.15s ease; }
    .tooltip[visibility="hidden"] { opacity: 0; }
    .tooltip[visibility="visible"] { opacity: 1; }`

// hoverJS mirrors interact.Machine: one hover slot, direct hand-over between
// markers, stale leaves ignored, tooltip flipped past the midline.
const hoverJS = `
    const svg = document.querySelector('svg.rrg');
    const W = +svg.dataset.width, H = +svg.dataset.height;
    const GROW = 2, HOVER_STROKE = 2.5;
    let hovered = null;
    function toLocal(evt) {
      const pt = svg.createSVGPoint();
      pt.x = evt.clientX; pt.y = evt.clientY;
      return pt.matrixTransform(svg.getScreenCTM().inverse());
    }
    function part(cls, id) {
      return Array.from(svg.querySelectorAll(cls)).find(el => el.dataset.for === id);
    }
    function show(id, on) {
      const g = Array.from(svg.querySelectorAll('.marker')).find(el => el.dataset.id === id);
      if (!g) return;
      const c = g.querySelector('.marker-circle');
      c.setAttribute('r', on ? +g.dataset.r + GROW : g.dataset.r);
      c.setAttribute('stroke-width', on ? HOVER_STROKE : g.dataset.stroke);
      c.setAttribute('stroke', on ? g.dataset.quadrantColor : g.dataset.color);
      c.classList.toggle('hovered', on);
      [part('.trail', id), part('.tooltip', id)].forEach(el => {
        if (el) el.setAttribute('visibility', on ? 'visible' : 'hidden');
      });
      if (on) g.parentNode.appendChild(g);
    }
    function place(id, p) {
      const tip = part('.tooltip', id);
      if (!tip) return;
      const w = +tip.dataset.w, h = +tip.dataset.h, off = +tip.dataset.offset;
      const x = p.x > W / 2 ? p.x - off - w : p.x + off;
      const y = Math.max(0, Math.min(p.y - h / 2, H - h));
      tip.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + y.toFixed(1) + ')');
      tip.parentNode.appendChild(tip);
    }
    svg.querySelectorAll('.marker').forEach(g => {
      const id = g.dataset.id;
      g.addEventListener('mouseenter', e => {
        if (hovered !== null && hovered !== id) show(hovered, false);
        hovered = id;
        show(id, true);
        place(id, toLocal(e));
      });
      g.addEventListener('mousemove', e => { if (hovered === id) place(id, toLocal(e)); });
      g.addEventListener('mouseleave', () => {
        if (hovered !== id) return;
        show(id, false);
        hovered = null;
      });
    });`

func renderHoverScript(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", hoverCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", hoverJS)
}
