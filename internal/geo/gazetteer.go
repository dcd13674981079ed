// Package geo resolves free-text place names to coordinates and guards
// against implausible coordinate data coming from upstream clients.
package geo

import (
	"sort"
	"strings"

	"sawari/internal/types"
)

// Service region plausibility envelope. India roughly spans 68-97 E and 8-37 N;
// coordinates outside it are treated as corrupt.
const (
	EnvelopeMinLng = 68.0
	EnvelopeMaxLng = 97.0
	EnvelopeMinLat = 8.0
	EnvelopeMaxLat = 37.0
)

// placeholderPoints are coordinates that well-known client SDK defaults or
// uninitialized values produce; they are never legitimate in the service region.
var placeholderPoints = []types.Point{
	{Lat: 40.7128, Lng: -74.006},  // New York
	{Lat: 42.3601, Lng: -71.0589}, // Boston
	{Lat: 0, Lng: 0},              // null island
	{Lat: -90, Lng: -180},
	{Lat: 90, Lng: 180},
}

// cities maps canonical city names to coordinates for the reference deployment.
var cities = map[string]types.Point{
	"Hyderabad": {Lat: 17.3850, Lng: 78.4867},
	"Nizamabad": {Lat: 18.6725, Lng: 78.2298},
	"Medchal": {Lat: 17.6295, Lng: 78.4813},
	"Metpally": {Lat: 18.8298, Lng: 78.8419},
	"Vijayanagaram": {Lat: 18.4723, Lng: 83.4032},
	"Kakinada": {Lat: 16.9891, Lng: 82.2381},
	"Mumbai": {Lat: 19.0760, Lng: 72.8777},
	"Delhi": {Lat: 28.6139, Lng: 77.2090},
	"Bangalore": {Lat: 12.9716, Lng: 77.5946},
	"Chennai": {Lat: 13.0827, Lng: 80.2707},
	"Kolkata": {Lat: 22.5726, Lng: 88.3639},
	"Pune": {Lat: 18.5204, Lng: 73.8567},
	"Ahmedabad": {Lat: 23.0225, Lng: 72.5714},
	"Jaipur": {Lat: 26.9124, Lng: 75.7873},
	"Lucknow": {Lat: 26.8467, Lng: 80.9462},
	"Kanpur": {Lat: 26.4499, Lng: 80.3319},
	"Nagpur": {Lat: 21.1458, Lng: 79.0882},
	"Indore": {Lat: 22.7196, Lng: 75.8573},
	"Thane": {Lat: 19.2183, Lng: 72.9661},
	"Bhopal": {Lat: 23.2599, Lng: 77.4050},
	"Visakhapatnam": {Lat: 17.6868, Lng: 83.2185},
	"Pimpri-Chinchwad": {Lat: 18.6298, Lng: 73.7996},
	"Patna": {Lat: 25.5941, Lng: 85.1376},
	"Vadodara": {Lat: 22.3072, Lng: 73.1811},
	"Ghaziabad": {Lat: 28.6692, Lng: 77.4538},
	"Ludhiana": {Lat: 30.9010, Lng: 75.8573},
	"Agra": {Lat: 27.1767, Lng: 77.9629},
	"Nashik": {Lat: 19.9975, Lng: 73.7898},
	"Faridabad": {Lat: 28.4089, Lng: 77.3199},
	"Meerut": {Lat: 28.6139, Lng: 77.7064},
	"Rajkot": {Lat: 22.3039, Lng: 70.8022},
	"Kalyan-Dombivali": {Lat: 19.2350, Lng: 73.1299},
	"Vasai-Virar": {Lat: 19.4259, Lng: 72.8199},
	"Varanasi": {Lat: 25.3176, Lng: 82.9739},
	"Srinagar": {Lat: 34.0837, Lng: 74.7973},
	"Aurangabad": {Lat: 19.8762, Lng: 75.3422},
	"Dhanbad": {Lat: 23.7957, Lng: 86.4396},
	"Amritsar": {Lat: 31.6340, Lng: 74.8570},
	"Allahabad": {Lat: 25.4358, Lng: 81.8463},
	"Ranchi": {Lat: 23.3441, Lng: 85.3096},
	"Howrah": {Lat: 22.5958, Lng: 88.2636},
	"Coimbatore": {Lat: 11.0168, Lng: 76.9558},
	"Jabalpur": {Lat: 23.1815, Lng: 79.9864},
	"Gwalior": {Lat: 26.2183, Lng: 78.1828},
	"Vijayawada": {Lat: 16.5062, Lng: 80.6480},
	"Jodhpur": {Lat: 26.2389, Lng: 73.8563},
	"Madurai": {Lat: 9.9252, Lng: 78.1198},
	"Raipur": {Lat: 21.2514, Lng: 81.6296},
	"Kota": {Lat: 25.2138, Lng: 75.8641},
	"Guwahati": {Lat: 26.1445, Lng: 91.7506},
	"Chandigarh": {Lat: 30.7333, Lng: 76.7794},
	"Solapur": {Lat: 17.6599, Lng: 75.9064},
	"Hubli-Dharwad": {Lat: 15.3647, Lng: 75.1238},
	"Mysore": {Lat: 12.2958, Lng: 76.6394},
	"Tiruchirappalli": {Lat: 10.7905, Lng: 78.7047},
	"Bareilly": {Lat: 28.3670, Lng: 79.4304},
	"Aligarh": {Lat: 27.8974, Lng: 78.0880},
	"Tiruppur": {Lat: 11.1085, Lng: 77.5563},
	"Gurgaon": {Lat: 28.4595, Lng: 77.0266},
	"Moradabad": {Lat: 28.8389, Lng: 78.7748},
	"Jalandhar": {Lat: 31.3260, Lng: 75.5762},
	"Bhubaneswar": {Lat: 20.2961, Lng: 85.8173},
	"Salem": {Lat: 11.6643, Lng: 78.1601},
	"Warangal": {Lat: 17.9689, Lng: 79.5882},
	"Guntur": {Lat: 16.2990, Lng: 80.4397},
	"Bhiwandi": {Lat: 19.2965, Lng: 73.0629},
	"Saharanpur": {Lat: 29.9675, Lng: 77.5498},
	"Gorakhpur": {Lat: 26.7606, Lng: 83.3732},
	"Bikaner": {Lat: 28.0229, Lng: 73.3149},
	"Amravati": {Lat: 20.9374, Lng: 77.7578},
	"Noida": {Lat: 28.5355, Lng: 77.3910},
	"Jamshedpur": {Lat: 22.8046, Lng: 86.2029},
	"Bhilai": {Lat: 21.2094, Lng: 81.4281},
	"Cuttack": {Lat: 20.4625, Lng: 85.8812},
	"Firozabad": {Lat: 27.1591, Lng: 78.4018},
	"Kochi": {Lat: 9.9312, Lng: 76.2673},
	"Nellore": {Lat: 14.4426, Lng: 79.9864},
	"Bhavnagar": {Lat: 21.7645, Lng: 72.1519},
	"Dehradun": {Lat: 30.3165, Lng: 78.0322},
	"Durgapur": {Lat: 23.5204, Lng: 87.3215},
	"Asansol": {Lat: 23.6889, Lng: 86.9667},
	"Rourkela": {Lat: 22.2494, Lng: 84.8544},
	"Nanded": {Lat: 19.1383, Lng: 77.3205},
	"Kolhapur": {Lat: 16.7050, Lng: 74.2433},
	"Ajmer": {Lat: 26.4499, Lng: 74.6399},
	"Akola": {Lat: 20.7096, Lng: 77.0022},
	"Gulbarga": {Lat: 17.3297, Lng: 76.8376},
	"Jamnagar": {Lat: 22.4707, Lng: 70.0669},
	"Ujjain": {Lat: 23.1765, Lng: 75.8573},
	"Loni": {Lat: 28.7515, Lng: 77.2905},
	"Siliguri": {Lat: 26.7271, Lng: 88.3639},
	"Jhansi": {Lat: 25.4484, Lng: 78.5682},
	"Ulhasnagar": {Lat: 19.2183, Lng: 73.1463},
	"Jammu": {Lat: 32.7266, Lng: 74.8570},
	"Sangli-Miraj & Kupwad": {Lat: 16.8524, Lng: 74.5698},
	"Mangalore": {Lat: 12.9716, Lng: 74.8560},
	"Erode": {Lat: 11.3410, Lng: 77.7274},
	"Belgaum": {Lat: 15.8497, Lng: 74.5270},
	"Ambattur": {Lat: 13.1147, Lng: 80.1485},
	"Tirunelveli": {Lat: 8.7139, Lng: 77.7311},
	"Malegaon": {Lat: 20.5535, Lng: 74.5270},
	"Gaya": {Lat: 24.7914, Lng: 85.0019},
	"Jalgaon": {Lat: 21.0077, Lng: 75.5626},
	"Udaipur": {Lat: 24.5854, Lng: 73.7125},
	"Maheshtala": {Lat: 22.5086, Lng: 88.2636},
	"Tirupur": {Lat: 11.1085, Lng: 77.5563},
	"Davanagere": {Lat: 14.4644, Lng: 75.9220},
	"Kozhikode": {Lat: 11.2588, Lng: 75.7804},
	"Kurnool": {Lat: 15.8281, Lng: 78.0411},
	"Rajpur Sonarpur": {Lat: 22.4499, Lng: 88.3639},
	"Bokaro": {Lat: 23.6693, Lng: 85.9917},
	"South Dumdum": {Lat: 22.6100, Lng: 88.3639},
	"Bellary": {Lat: 15.1394, Lng: 76.9366},
	"Patiala": {Lat: 30.3398, Lng: 76.4009},
	"Gopalpur": {Lat: 19.2599, Lng: 84.9449},
	"Agartala": {Lat: 23.8315, Lng: 91.2868},
	"Bhagalpur": {Lat: 25.2445, Lng: 86.9826},
	"Muzaffarnagar": {Lat: 29.4709, Lng: 77.7039},
	"Bhatpara": {Lat: 22.8664, Lng: 88.4084},
	"Panihati": {Lat: 22.6941, Lng: 88.3639},
	"Latur": {Lat: 18.4088, Lng: 76.5604},
	"Dhule": {Lat: 20.9028, Lng: 74.7789},
	"Rohtak": {Lat: 28.8955, Lng: 76.2794},
	"Korba": {Lat: 22.3458, Lng: 82.7191},
	"Bhilwara": {Lat: 25.3463, Lng: 74.6353},
	"Berhampur": {Lat: 19.3148, Lng: 84.7941},
	"Muzaffarpur": {Lat: 26.1209, Lng: 85.3906},
	"Ahmednagar": {Lat: 19.0952, Lng: 74.7478},
	"Mathura": {Lat: 27.4924, Lng: 77.6737},
	"Kollam": {Lat: 8.8932, Lng: 76.6141},
	"Avadi": {Lat: 13.1147, Lng: 80.0999},
	"Kadapa": {Lat: 14.4753, Lng: 78.8236},
	"Anantapur": {Lat: 14.6819, Lng: 77.6000},
	"Tiruchengode": {Lat: 11.3833, Lng: 77.9333},
	"Bharatpur": {Lat: 27.1767, Lng: 77.4909},
	"Bijapur": {Lat: 16.8244, Lng: 75.7156},
	"Rampur": {Lat: 28.8154, Lng: 79.0282},
	"Shivamogga": {Lat: 13.9299, Lng: 75.5716},
	"Ratlam": {Lat: 23.3343, Lng: 75.0366},
	"Modinagar": {Lat: 28.5708, Lng: 77.8478},
	"Durg": {Lat: 21.1904, Lng: 81.2867},
	"Shillong": {Lat: 25.5788, Lng: 91.8933},
	"Imphal": {Lat: 24.8170, Lng: 93.9063},
	"Hapur": {Lat: 28.7299, Lng: 77.7807},
	"Arrah": {Lat: 25.5540, Lng: 84.6700},
	"Karimnagar": {Lat: 18.4386, Lng: 79.1288},
	"Parbhani": {Lat: 19.2686, Lng: 76.7781},
	"Etawah": {Lat: 26.7767, Lng: 79.0219},
	"Begusarai": {Lat: 25.4180, Lng: 86.1347},
	"New Delhi": {Lat: 28.6139, Lng: 77.2090},
	"Gandhinagar": {Lat: 23.2156, Lng: 72.6369},
	"Panaji": {Lat: 15.4909, Lng: 73.8563},
	"Port Blair": {Lat: 11.6234, Lng: 92.7265},
	"Silvassa": {Lat: 20.2769, Lng: 72.9965},
	"Daman": {Lat: 20.3974, Lng: 72.8324},
	"Diu": {Lat: 20.7144, Lng: 70.9874},
	"Kavaratti": {Lat: 10.5593, Lng: 72.6369},
	"Puducherry": {Lat: 11.9416, Lng: 79.8083},
	"Karaikal": {Lat: 10.9254, Lng: 79.8435},
	"Mahe": {Lat: 11.7081, Lng: 75.5342},
	"Yanam": {Lat: 16.7331, Lng: 82.2137},
}

// Gazetteer is a static place-name lookup table with case-insensitive access.
type Gazetteer struct {
	byLower map[string]entry
	names   []string
}

type entry struct {
	name  string
	point types.Point
}

func NewGazetteer() *Gazetteer {
	g := &Gazetteer{byLower: make(map[string]entry, len(cities))}
	for name, p := range cities {
		g.byLower[strings.ToLower(name)] = entry{name: name, point: p}
		g.names = append(g.names, name)
	}
	sort.Strings(g.names)
	return g
}

// Lookup returns the coordinate for an exact (case-insensitive) city name.
func (g *Gazetteer) Lookup(name string) (types.Point, bool) {
	e, ok := g.byLower[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return types.Point{}, false
	}
	return e.point, true
}

// Suggest returns up to limit city names containing the query as a substring.
func (g *Gazetteer) Suggest(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 || limit <= 0 {
		return nil
	}
	var out []string
	for _, name := range g.names {
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, name)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// InEnvelope reports whether p lies inside the service region envelope.
func InEnvelope(p types.Point) bool {
	return p.Lng >= EnvelopeMinLng && p.Lng <= EnvelopeMaxLng &&
		p.Lat >= EnvelopeMinLat && p.Lat <= EnvelopeMaxLat
}

// IsPlaceholder reports whether p matches a known default coordinate within
// a small tolerance.
func IsPlaceholder(p types.Point) bool {
	const tol = 0.001
	for _, d := range placeholderPoints {
		if abs(p.Lng-d.Lng) < tol && abs(p.Lat-d.Lat) < tol {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
