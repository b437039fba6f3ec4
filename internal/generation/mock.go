package generation

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/adforge/adforge-backend/pkg/enums"
)

// Mock content keeps the pipeline fully operational with no provider
// credentials. Idea templates are written in the target language; images are
// rendered as placeholder PNGs at the real aspect-ratio dimensions.

var mockIdeaTemplates = map[string]string{
	"en-US": "[MOCK] Creative social media idea for %[2]s in %[1]s: Showcase product features with lifestyle imagery emphasizing %[3]s. Focus on regional preferences and demographic interests.",
	"en-GB": "[MOCK] Creative social media idea for %[2]s in %[1]s: Showcase product features with lifestyle imagery emphasising %[3]s. Focus on regional preferences and demographic interests.",
	"es-MX": "[MOCK] Idea creativa para redes sociales dirigida a %[2]s en %[1]s: Muestra las características del producto con imágenes de estilo de vida que enfatizan %[3]s. Enfócate en preferencias regionales e intereses demográficos.",
	"es-ES": "[MOCK] Idea creativa para redes sociales dirigida a %[2]s en %[1]s: Muestra las características del producto con imágenes de estilo de vida que enfatizan %[3]s. Enfócate en preferencias regionales e intereses demográficos.",
	"fr-FR": "[MOCK] Idée créative pour les réseaux sociaux pour %[2]s en %[1]s: Présentez les fonctionnalités du produit avec des images de style de vie mettant l'accent sur %[3]s. Concentrez-vous sur les préférences régionales et les intérêts démographiques.",
	"de-DE": "[MOCK] Kreative Social-Media-Idee für %[2]s in %[1]s: Zeigen Sie Produktfunktionen mit Lifestyle-Bildern, die %[3]s betonen. Konzentrieren Sie sich auf regionale Präferenzen und demografische Interessen.",
	"ja-JP": "[MOCK] %[1]sの%[2]s向けのクリエイティブなソーシャルメディアのアイデア：%[3]sを強調したライフスタイル画像で製品の特徴を紹介します。地域の好みや人口統計の興味に焦点を当てます。",
	"zh-CN": "[MOCK] 面向%[1]s%[2]s的创意社交媒体想法：通过强调%[3]s的生活方式图像展示产品功能。关注区域偏好和人口统计兴趣。",
	"ko-KR": "[MOCK] %[1]s의 %[2]s를 위한 창의적인 소셜 미디어 아이디어: %[3]s를 강조하는 라이프스타일 이미지로 제품 기능을 선보이세요. 지역 선호도와 인구 통계적 관심사에 초점을 맞춥니다.",
	"it-IT": "[MOCK] Idea creativa per i social media per %[2]s in %[1]s: Mostra le caratteristiche del prodotto con immagini di lifestyle che enfatizzano %[3]s. Concentrati sulle preferenze regionali e sugli interessi demografici.",
	"pt-BR": "[MOCK] Ideia criativa para redes sociais para %[2]s em %[1]s: Mostre recursos do produto com imagens de estilo de vida enfatizando %[3]s. Concentre-se em preferências regionais e interesses demográficos.",
}

func mockIdea(region, demographic, campaignMessage, languageCode string) string {
	tmpl, ok := mockIdeaTemplates[languageCode]
	if !ok {
		tmpl = mockIdeaTemplates["en-US"]
	}
	return fmt.Sprintf(tmpl, region, demographic, campaignMessage)
}

var (
	mockBackground = color.RGBA{R: 0x4A, G: 0x55, B: 0x68, A: 0xFF}
	mockBand       = color.RGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xFF}
)

// mockImagePNG renders a flat placeholder with a horizontal band at the
// requested aspect ratio's real dimensions.
func mockImagePNG(ratio enums.AspectRatio) ([]byte, error) {
	width, height := ratio.Dimensions()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bandTop := height / 2
	bandBottom := bandTop + height/10
	for y := 0; y < height; y++ {
		c := mockBackground
		if y >= bandTop && y < bandBottom {
			c = mockBand
		}
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode placeholder png: %w", err)
	}
	return buf.Bytes(), nil
}
