package debugui

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/caffeinated/asset"
)

// Asset browser columns, in table order.
const (
	ColumnID = iota
	ColumnKind
	ColumnDetails
	ColumnAnimations
	ColumnPending
)

// AssetInfo is one row of the asset browser.
type AssetInfo struct {
	ID         string
	Kind       asset.Kind
	Details    string
	Animations int
	Pending    int
}

type AssetBrowserComponent struct {
	assets        []AssetInfo
	selected      string
	sortColumn    int
	sortAscending bool
}

func NewAssetBrowserComponent() AssetBrowserComponent {
	return AssetBrowserComponent{
		sortColumn:    ColumnID,
		sortAscending: true,
	}
}

// CollectAssets describes every asset of the registry in id order.
func CollectAssets(registry *asset.Registry) []AssetInfo {
	infos := make([]AssetInfo, 0, registry.Len())
	if registry == nil {
		return infos
	}

	for id, c := range registry.All() {
		info := AssetInfo{ID: id, Kind: c.Kind()}
		switch v := c.(type) {
		case *asset.Atlas:
			w, h := v.CellSize()
			info.Details = fmt.Sprintf("%dx%d cells of %dx%d", v.Rows(), v.Columns(), w, h)
			info.Animations = len(v.Animations())
			info.Pending = v.Pending()
		case *asset.AudioClip:
			info.Details = fmt.Sprintf("%s %s", v.Category, filepath.Base(v.Path))
		}
		infos = append(infos, info)
	}
	return infos
}

// SortAssets orders rows by column. Ties keep id order.
func SortAssets(infos []AssetInfo, column int, ascending bool) {
	sort.SliceStable(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		if !ascending {
			a, b = b, a
		}

		switch column {
		case ColumnKind:
			return a.Kind < b.Kind
		case ColumnDetails:
			return a.Details < b.Details
		case ColumnAnimations:
			return a.Animations < b.Animations
		case ColumnPending:
			return a.Pending < b.Pending
		default:
			return a.ID < b.ID
		}
	})
}

// Selected returns the id of the clicked row, or "".
func (ab *AssetBrowserComponent) Selected() string {
	return ab.selected
}

func (ab *AssetBrowserComponent) refresh(registry *asset.Registry) {
	ab.assets = CollectAssets(registry)
	SortAssets(ab.assets, ab.sortColumn, ab.sortAscending)
}

func (ab *AssetBrowserComponent) Render(registry *asset.Registry) {
	defer imgui.End()
	if !imgui.BeginV("Asset Browser", nil, imgui.WindowFlagsNone) {
		return
	}

	if registry == nil {
		imgui.Text("No campaign loaded")
		return
	}

	ab.refresh(registry)

	maxPending := 0
	for _, info := range ab.assets {
		maxPending = max(maxPending, info.Pending)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("AssetTable", 5, tableFlags, imgui.NewVec2(0, 240), 0) {
		imgui.TableSetupColumn("Asset ID")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Details")
		imgui.TableSetupColumn("Animations")
		imgui.TableSetupColumn("Pending Draws")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			ab.sortColumn = int(spec.ColumnIndex())
			ab.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			SortAssets(ab.assets, ab.sortColumn, ab.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, info := range ab.assets {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(info.ID, ab.selected == info.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				ab.selected = info.ID
			}

			imgui.TableNextColumn()
			imgui.Text(info.Kind.String())

			imgui.TableNextColumn()
			imgui.Text(info.Details)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.Animations))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.Pending))

			if maxPending > 0 {
				barWidth := float32(info.Pending) / float32(maxPending) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	atlas, ok := registry.Atlas(ab.selected)
	if !ok {
		return
	}
	imgui.Separator()
	imgui.Text(ab.selected)
	for _, name := range atlas.Animations() {
		if imgui.TreeNodeStr(name) {
			for i, pos := range atlas.Frames(name) {
				imgui.BulletText(fmt.Sprintf("%d: row %d, column %d", i, pos.Row, pos.Column))
			}
			imgui.TreePop()
		}
	}
}
