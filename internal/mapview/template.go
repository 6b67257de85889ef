package mapview

import "html/template"

type templateData struct {
	Title     string
	CenterLat float64
	CenterLng float64
	Zoom      float64
	Points    template.JS
	Snapped   template.JS
	Lines     template.JS
}

var mapTemplate = template.Must(template.New("map").Parse(mapHTML))

const mapHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.2/css/all.min.css">
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/Leaflet.awesome-markers/2.0.2/leaflet.awesome-markers.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/Leaflet.awesome-markers/2.0.2/leaflet.awesome-markers.js"></script>
<style>
  html, body { margin: 0; height: 100%; }
  #map { height: 100%; }
</style>
</head>
<body>
<div id="map"></div>
<script>
  var map = L.map("map").setView([{{.CenterLat}}, {{.CenterLng}}], {{.Zoom}});

  L.tileLayer("https://tile.openstreetmap.org/{z}/{x}/{y}.png", {
    maxZoom: 19,
    attribution: "&copy; OpenStreetMap contributors"
  }).addTo(map);

  var originalIcon = L.AwesomeMarkers.icon({
    icon: "ban", prefix: "fa", markerColor: "red"
  });
  var snappedIcon = L.AwesomeMarkers.icon({
    icon: "person-walking", prefix: "fa", markerColor: "green"
  });

  function popup(feature, layer) {
    var props = feature.properties || {};
    var rows = Object.keys(props).map(function (k) {
      return "<b>" + k + "</b>: " + props[k];
    });
    if (rows.length > 0) {
      layer.bindPopup(rows.join("<br>"));
    }
  }

  L.geoJSON({{.Points}}, {
    pointToLayer: function (feature, latlng) {
      return L.marker(latlng, { icon: originalIcon });
    },
    onEachFeature: popup
  }).addTo(map);

  L.geoJSON({{.Snapped}}, {
    pointToLayer: function (feature, latlng) {
      return L.marker(latlng, { icon: snappedIcon });
    },
    onEachFeature: popup
  }).addTo(map);

  L.geoJSON({{.Lines}}, {
    style: { color: "#3388ff", weight: 3 },
    onEachFeature: popup
  }).addTo(map);
</script>
</body>
</html>
`
