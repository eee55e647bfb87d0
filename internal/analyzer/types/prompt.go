package types

// DefaultPrompt asks the model for the structured aesthetic description in
// the deployment's language. The JSON shape at the end is what
// analysis.Parse expects on the happy path.
const DefaultPrompt = `以下の画像を分析して、以下の項目について日本語で回答してください。

1. **カラー**
   - 主要なカラーを5-7色抽出してください
   - 各色のHEXコードを記載してください
   - 色の名前も記載してください（例: ナチュラルベージュ、ウォームグレー）

2. **質感・スタイル**
   - テクスチャや素材感を言語化してください
   - デザインスタイルを分類してください（例: ミニマル、ナチュラル、モダン）

3. **トーン＆ムード**
   - 全体的な雰囲気や感情的なトーンを言語化してください
   - キーワードを3-5個挙げてください

4. **レイアウト特性**（必要に応じて）
   - 構図や配置パターンを分析してください

回答は以下のJSON形式で返してください：
{
  "colors": [
    {"name": "色の名前", "hex": "#HEXコード", "rgb": "rgb(r, g, b)"}
  ],
  "texture": "質感・スタイルの説明",
  "style": "デザインスタイル",
  "tone": "トーン＆ムードの説明",
  "moodKeywords": ["キーワード1", "キーワード2", ...],
  "layout": "レイアウト特性の説明（該当する場合）"
}`
