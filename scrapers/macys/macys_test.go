package macys

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tileFromHTML(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	tile := doc.Find("li.productThumbnail").First()
	require.Equal(t, 1, tile.Length())
	return tile
}

const saleTile = `
<ul>
  <li class="productThumbnail" data-product-id="12345">
    <div class="productBrand">Tommy Hilfiger</div>
    <div class="productDescription"><a href="/shop/product/crew-sweater?ID=12345">Crew Sweater</a></div>
    <img class="thumbnailImage" src="https://img.macys.com/12345.jpg"/>
    <span class="regular originalOrRegularPriceOnSale">$89.50</span>
    <span class="discount">$53.70</span>
    <div class="colorSwatches">
      <div class="swatchItem" aria-label="Navy" data-swatch-id="sw-1" data-image="https://img.macys.com/12345-navy.jpg"></div>
      <div class="swatchItem" aria-label="Grey Heather" data-swatch-id="sw-2"></div>
    </div>
  </li>
</ul>`

const plainTile = `
<ul>
  <li class="productThumbnail" data-product-id="67890">
    <div class="productDescription"><a href="https://www.macys.com/shop/product/belt?ID=67890">Leather Belt</a></div>
    <img class="thumbnailImage" src="https://img.macys.com/67890.jpg"/>
    <span class="regular">$40.00</span>
  </li>
</ul>`

func TestMapTileSaleWithSwatches(t *testing.T) {
	s := New(zap.NewNop().Sugar(), nil)

	p, err := s.mapTile(tileFromHTML(t, saleTile))
	require.NoError(t, err)

	assert.Equal(t, "12345", p.ParentProductID)
	assert.Equal(t, "Crew Sweater", p.Name)
	assert.Equal(t, "Tommy Hilfiger", p.Brand)
	assert.Equal(t, "macys.com", p.RetailerDomain)
	require.Len(t, p.Variants, 2)

	navy := p.Variants[0]
	assert.Equal(t, "Navy", navy.Color)
	assert.Equal(t, 89.50, navy.OriginalPrice)
	assert.Equal(t, 53.70, navy.FinalPrice)
	assert.Equal(t, 40, navy.Discount)
	assert.True(t, navy.IsOnSale)
	assert.True(t, navy.IsInStock)
	assert.Equal(t, "https://www.macys.com/shop/product/crew-sweater?ID=12345", navy.LinkURL)
	assert.Equal(t, "https://img.macys.com/12345-navy.jpg", navy.ImageURL)

	// Second swatch has no dedicated image, falls back to the tile image
	assert.Equal(t, "Grey Heather", p.Variants[1].Color)
	assert.Equal(t, "https://img.macys.com/12345.jpg", p.Variants[1].ImageURL)
}

func TestMapTileWithoutSwatchesOrSale(t *testing.T) {
	s := New(zap.NewNop().Sugar(), nil)

	p, err := s.mapTile(tileFromHTML(t, plainTile))
	require.NoError(t, err)

	assert.Equal(t, "Macys", p.Brand)
	require.Len(t, p.Variants, 1)

	v := p.Variants[0]
	assert.Equal(t, "Default", v.Color)
	assert.Equal(t, 40.0, v.OriginalPrice)
	assert.Equal(t, 40.0, v.FinalPrice)
	assert.False(t, v.IsOnSale)
}

func TestMapTileMissingProductID(t *testing.T) {
	s := New(zap.NewNop().Sugar(), nil)

	_, err := s.mapTile(tileFromHTML(t, `<ul><li class="productThumbnail"></li></ul>`))
	assert.Error(t, err)
}
