package config

const (
	defaultInputDir          = "01_INPUT_STILLS"
	defaultSilverstackCSVDir = "02_DIT_CSV"
	defaultFrameCSVDir       = "03_DIT_FbF"
	defaultLabALEDir         = "04_LAB_ALE"
	defaultOutputDir         = "05_OUTPUT_STILLS"

	defaultOCIOTemplate = "static/config_template.ocio"
	defaultLUTDir       = "static/lut_dir"
	defaultFont         = "static/fonts/monarcha-regular.ttf"
	defaultLogoImage    = "static/logo_image.png"
	defaultToolImage    = "static/tool_image.png"

	defaultBatchSize    = 10
	defaultOutputWidth  = 3840
	defaultOutputHeight = 2160

	// Framing fallback when a clip carries no ALE extraction geometry.
	defaultCropLeft   = 115
	defaultCropRight  = 115
	defaultCropTop    = 665
	defaultCropBottom = 665

	defaultFontSizeSmall  = 35
	defaultFontSizeMedium = 40
	defaultFontSizeLarge  = 70
	defaultTextMargin     = 60
	defaultTextYTop       = 30
	defaultTextYBottom    = 200
	defaultLogoPadding    = 50
	defaultLogoMaxHeight  = 200
	defaultLogoSpacing    = 20

	defaultELZoneLogFormat = "logc4"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:          defaultInputDir,
			OutputDir:         defaultOutputDir,
			FrameCSVDir:       defaultFrameCSVDir,
			LabALEDir:         defaultLabALEDir,
			SilverstackCSVDir: defaultSilverstackCSVDir,
		},
		Resources: Resources{
			OCIOTemplate: defaultOCIOTemplate,
			LUTDir:       defaultLUTDir,
			Font:         defaultFont,
			LogoImage:    defaultLogoImage,
			ToolImage:    defaultToolImage,
		},
		Processing: Processing{
			Profile:      ProfileFinal,
			BatchSize:    defaultBatchSize,
			OutputWidth:  defaultOutputWidth,
			OutputHeight: defaultOutputHeight,
			CropLeft:     defaultCropLeft,
			CropRight:    defaultCropRight,
			CropTop:      defaultCropTop,
			CropBottom:   defaultCropBottom,
		},
		Overlay: Overlay{
			FontSizeSmall:  defaultFontSizeSmall,
			FontSizeMedium: defaultFontSizeMedium,
			FontSizeLarge:  defaultFontSizeLarge,
			TextMargin:     defaultTextMargin,
			TextYTop:       defaultTextYTop,
			TextYBottom:    defaultTextYBottom,
			LogoPadding:    defaultLogoPadding,
			LogoMaxHeight:  defaultLogoMaxHeight,
			LogoSpacing:    defaultLogoSpacing,
		},
		ELZone: ELZone{
			LogFormat: defaultELZoneLogFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
