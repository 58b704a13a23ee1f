// internal/service/shipping/domain/region.go
package domain

// Zone 是计算运费时使用的粗粒度地理分组
type Zone string

const (
	ZoneCentro   Zone = "Centro"
	ZoneSantiago Zone = "Santiago"
	ZoneExtremo  Zone = "Extremo"
)

// Region 是智利的一级行政区，每个 Region 只属于一个 Zone
type Region struct {
	Name string `json:"name"`
	Zone Zone   `json:"zone"`
}

// regions 按由北到南排列，名字必须与前端下拉框的值逐字节一致
var regions = []Region{
	{Name: "Arica y Parinacota", Zone: ZoneExtremo},
	{Name: "Tarapacá", Zone: ZoneExtremo},
	{Name: "Antofagasta", Zone: ZoneExtremo},
	{Name: "Atacama", Zone: ZoneExtremo},
	{Name: "Coquimbo", Zone: ZoneCentro},
	{Name: "Valparaíso", Zone: ZoneCentro},
	{Name: "Metropolitana", Zone: ZoneSantiago},
	{Name: "O'Higgins", Zone: ZoneCentro},
	{Name: "Maule", Zone: ZoneCentro},
	{Name: "Ñuble", Zone: ZoneCentro},
	{Name: "Biobío", Zone: ZoneCentro},
	{Name: "La Araucanía", Zone: ZoneCentro},
	{Name: "Los Ríos", Zone: ZoneCentro},
	{Name: "Los Lagos", Zone: ZoneCentro},
	{Name: "Aysén", Zone: ZoneExtremo},
	{Name: "Magallanes", Zone: ZoneExtremo},
}

var zoneByRegion = func() map[string]Zone {
	m := make(map[string]Zone, len(regions))
	for _, r := range regions {
		m[r.Name] = r.Zone
	}
	return m
}()

// Regions 返回全部区域的副本
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// LookupZone 精确匹配区域名，不做大小写或重音归一化
func LookupZone(regionName string) (Zone, bool) {
	z, ok := zoneByRegion[regionName]
	return z, ok
}

// IsKnownRegion 用于请求校验
func IsKnownRegion(regionName string) bool {
	_, ok := zoneByRegion[regionName]
	return ok
}

func isKnownZone(z Zone) bool {
	return z == ZoneCentro || z == ZoneSantiago || z == ZoneExtremo
}
